// SampleDB is the archive of samples received from the live feed.
// It is written to by sample_collector only but can be read by anything.
// Logger binaries never touch it; their durable output is the CSV file.
package sampledb

import (
	"database/sql"
	"embed"
	"sync"

	"github.com/NotCoffee418/dbmigrator"
	"github.com/benchkit/power_analyzer_logger/pkg/logging"
	"github.com/benchkit/power_analyzer_logger/pkg/pathing"

	_ "modernc.org/sqlite"
)

var (
	db   *sql.DB
	once sync.Once
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Initialize must be called manually on startup
func InitializeDatabase() {
	// Create DB before migrations
	db := GetDB()
	_, err := db.Exec("SELECT 1;")
	if err != nil {
		logging.Warn().Err(err).Msg("Could not create DB")
	}

	// Apply migrations
	dbmigrator.SetDatabaseType(dbmigrator.SQLite)
	<-dbmigrator.MigrateUpCh(
		db,
		migrationFS,
		"migrations",
	)
}

func GetDB() *sql.DB {
	once.Do(func() {
		var err error
		db, err = sql.Open("sqlite", pathing.GetSampleDbPath())
		if err != nil {
			logging.Fatal().Err(err).Msg("Could not open sample database")
		}
		// Verify connection
		if err = db.Ping(); err != nil {
			logging.Fatal().Err(err).Msg("Could not reach sample database")
		}
	})
	return db
}
