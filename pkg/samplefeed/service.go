package samplefeed

import (
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/benchkit/power_analyzer_logger/pkg/logging"
	"github.com/gorilla/websocket"
)

// StartListener manages the websocket connection to a logger's monitor
// endpoint and calls funcToCall for each sample received. Reconnects with
// exponential backoff; returns on interrupt or when retries are exhausted.
func StartListener(host string, funcToCall func(sample *SampleMessage)) {
	const (
		maxRetries     = 10
		baseRetryDelay = 2 * time.Second
		maxRetryDelay  = 60 * time.Second
	)

	// WebSocket server URL
	u := url.URL{Scheme: "ws", Host: host, Path: "/ws"}

	// Channel to handle interrupt signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	retryCount := 0

	for {
		select {
		case <-interrupt:
			logging.Info().Msg("Interrupt received, shutting down...")
			return
		default:
			// Calculate retry delay with exponential backoff
			retryDelay := time.Duration(1<<retryCount) * baseRetryDelay
			if retryDelay > maxRetryDelay {
				retryDelay = maxRetryDelay
			}

			if retryCount > 0 {
				logging.Info().Dur("delay", retryDelay).Int("attempt", retryCount+1).
					Int("max", maxRetries).Msg("Retrying connection")
				select {
				case <-time.After(retryDelay):
				case <-interrupt:
					logging.Info().Msg("Interrupt received during retry wait, shutting down...")
					return
				}
			}

			logging.Info().Str("url", u.String()).Msg("Connecting to sample feed")

			dialer := websocket.DefaultDialer
			dialer.HandshakeTimeout = 10 * time.Second
			c, _, err := dialer.Dial(u.String(), nil)
			if err != nil {
				logging.Warn().Err(err).Msg("Connection failed")
				retryCount++
				if retryCount >= maxRetries {
					logging.Error().Int("retries", maxRetries).Msg("Max retries reached, giving up")
					return
				}
				continue
			}

			logging.Info().Msg("Connected, accepting samples")

			// Reset retry count on successful connection
			retryCount = 0

			connectionBroken := handleConnection(c, interrupt, funcToCall)

			c.Close()

			if !connectionBroken {
				// Clean shutdown requested
				return
			}

			logging.Warn().Msg("Connection lost, will retry")
		}
	}
}

func handleConnection(
	c *websocket.Conn,
	interrupt chan os.Signal,
	funcToCall func(sample *SampleMessage),
) bool {
	done := make(chan struct{})

	// Read deadline detects dead connections. Integration cycles can be
	// long, so rely on pings rather than sample rate.
	c.SetReadDeadline(time.Now().Add(90 * time.Second))

	// Goroutine to read messages
	go func() {
		defer close(done)
		for {
			messageType, message, err := c.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					logging.Warn().Err(err).Msg("WebSocket error")
				} else {
					logging.Info().Err(err).Msg("Connection closed")
				}
				return
			}

			// Reset read deadline on successful message
			c.SetReadDeadline(time.Now().Add(90 * time.Second))

			if messageType == websocket.TextMessage {
				if sample := SampleFromJsonBytes(message); sample != nil {
					funcToCall(sample)
				} else {
					logging.Warn().Str("message", string(message)).Msg("Failed to parse sample")
				}
			} else {
				logging.Warn().Int("type", messageType).Msg("Received unexpected message type")
			}
		}
	}()

	// Goroutine to send periodic pings to keep connection alive
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := c.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
					logging.Warn().Err(err).Msg("Failed to send ping")
					return
				}
			case <-done:
				return
			}
		}
	}()

	// Wait for connection to break or interrupt signal
	select {
	case <-done:
		// Connection broke
		return true
	case <-interrupt:
		logging.Info().Msg("Interrupt received, closing connection...")

		err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		if err != nil {
			logging.Warn().Err(err).Msg("Error sending close message")
		}

		// Wait for close confirmation or timeout
		select {
		case <-done:
		case <-time.After(time.Second):
		}

		// Clean shutdown
		return false
	}
}
