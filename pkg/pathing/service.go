package pathing

import (
	"log"
	"os"
	"path/filepath"
)

// Ensure directories exist on startup
func init() {
	// Directories that must exist:
	dirs := []string{
		GetDataDir(),
	}

	// Create all directories
	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			err := os.MkdirAll(dir, 0755)
			if err != nil {
				log.Printf("Warning: could not create %s: %v", dir, err)
			}
		}
	}
}

func GetSampleDbPath() string {
	// Join path
	return filepath.Join(GetDataDir(), "pa-samples.db")
}

func GetDataDir() string {
	if dir := os.Getenv("PA_LOGGER_DATA_DIR"); dir != "" {
		return dir
	}
	return "/var/lib/power_analyzer_logger"
}

func GetConfigDir() string {
	if dir := os.Getenv("PA_LOGGER_CONFIG_DIR"); dir != "" {
		return dir
	}
	return "/etc/power_analyzer_logger"
}
