package session

import (
	"testing"
	"time"

	"github.com/benchkit/power_analyzer_logger/pkg/scpi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedTransport answers each query from a per-command reply queue.
type scriptedTransport struct {
	written []string
	replies map[string][]string
	lastCmd string
}

func newScriptedTransport() *scriptedTransport {
	return &scriptedTransport{replies: make(map[string][]string)}
}

func (f *scriptedTransport) reply(cmd string, responses ...string) {
	f.replies[cmd] = append(f.replies[cmd], responses...)
}

func (f *scriptedTransport) WriteLine(line string) error {
	f.written = append(f.written, line)
	f.lastCmd = line
	return nil
}

func (f *scriptedTransport) ReadLine(timeout time.Duration) (string, error) {
	queue := f.replies[f.lastCmd]
	if len(queue) == 0 {
		return "", scpi.ErrReadTimeout
	}
	reply := queue[0]
	f.replies[f.lastCmd] = queue[1:]
	return reply, nil
}

func (f *scriptedTransport) Close() error { return nil }

func newTestSession(ft *scriptedTransport) *Session {
	client := scpi.NewClient(ft)
	client.CommandDelay = 0
	client.ReadTimeout = 10 * time.Millisecond
	return New(client)
}

func TestHandshake(t *testing.T) {
	t.Run("identified instrument", func(t *testing.T) {
		ft := newScriptedTransport()
		ft.reply("*IDN?", "TELEDYNE,T3PM1006,T0415,1.00")
		sess := newTestSession(ft)

		require.NoError(t, sess.Handshake())
	})

	t.Run("no response is fatal", func(t *testing.T) {
		ft := newScriptedTransport()
		sess := newTestSession(ft)

		assert.ErrorIs(t, sess.Handshake(), ErrNoIdentity)
	})
}

func TestConfigureItems(t *testing.T) {
	t.Run("assigns slots and verifies count", func(t *testing.T) {
		ft := newScriptedTransport()
		ft.reply(":NUMERIC:NORMAL:NUMBER?", "3")
		sess := newTestSession(ft)

		require.NoError(t, sess.ConfigureItems(AveragingItems))
		assert.Equal(t, 3, sess.ItemCount())
		assert.Equal(t, []string{
			":NUMeric:NORMal:ITEM1 UPPeak",
			":NUMeric:NORMal:ITEM2 I",
			":NUMeric:NORMal:ITEM3 P",
			":NUMERIC:NORMAL:NUMBER?",
		}, ft.written)
	})

	t.Run("one corrective set on count mismatch", func(t *testing.T) {
		ft := newScriptedTransport()
		ft.reply(":NUMERIC:NORMAL:NUMBER?", "6", "4")
		sess := newTestSession(ft)

		require.NoError(t, sess.ConfigureItems(IntegrationItems))
		assert.Equal(t, 4, sess.ItemCount())
		assert.Contains(t, ft.written, ":NUMeric:NORMal:NUMBer 4")
	})

	t.Run("proceeds when read-back stays wrong", func(t *testing.T) {
		ft := newScriptedTransport()
		ft.reply(":NUMERIC:NORMAL:NUMBER?", "6", "6")
		sess := newTestSession(ft)

		// At most one corrective attempt, then trust the set command.
		require.NoError(t, sess.ConfigureItems(IntegrationItems))
		assert.Equal(t, 4, sess.ItemCount())

		corrections := 0
		for _, cmd := range ft.written {
			if cmd == ":NUMeric:NORMal:NUMBer 4" {
				corrections++
			}
		}
		assert.Equal(t, 1, corrections)
	})

	t.Run("malformed read-back is a warning", func(t *testing.T) {
		ft := newScriptedTransport()
		ft.reply(":NUMERIC:NORMAL:NUMBER?", "garbage response", "also garbage")
		sess := newTestSession(ft)

		require.NoError(t, sess.ConfigureItems(AveragingItems))
		assert.Equal(t, 3, sess.ItemCount())
	})

	t.Run("rejects out of range slot counts", func(t *testing.T) {
		sess := newTestSession(newScriptedTransport())
		assert.Error(t, sess.ConfigureItems(nil))
		assert.Error(t, sess.ConfigureItems([]MeasurementItem{
			ItemCurrent, ItemCurrent, ItemCurrent, ItemCurrent, ItemCurrent,
		}))
	})
}

func TestConfigureAveraging(t *testing.T) {
	ft := newScriptedTransport()
	ft.reply(":MEASURE:AVERAGING:COUNT?", "16")
	sess := newTestSession(ft)

	require.NoError(t, sess.ConfigureAveraging(16))
	assert.Equal(t, []string{
		":MEASure:AVERaging:COUNt 16",
		":MEASURE:AVERAGING:COUNT?",
	}, ft.written)
}

func TestConfigureIntegration(t *testing.T) {
	ft := newScriptedTransport()
	ft.reply(":INTEGRATE:MODE?", "STANDARD")
	ft.reply(":INTEGRATE:FUNCTION?", "WATT")
	ft.reply(":INTEGRATE:TIMER?", "0,1,30")
	sess := newTestSession(ft)

	require.NoError(t, sess.ConfigureIntegration(90))
	assert.Equal(t, []string{
		":INTegrate:MODE STANdard",
		":INTegrate:FUNCtion WATT",
		":INTegrate:TIMer 0,1,30",
		":INTEGRATE:MODE?",
		":INTEGRATE:FUNCTION?",
		":INTEGRATE:TIMER?",
	}, ft.written)
}
