package scpi

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseIntResponse extracts an integer from a query response. Instruments may
// echo the command header before the value, so only the last whitespace
// separated token is parsed.
func ParseIntResponse(response string) (int, error) {
	fields := strings.Fields(response)
	if len(fields) == 0 {
		return 0, fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}
	value, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrMalformedResponse, response)
	}
	return value, nil
}

// ParseValueList parses a comma separated measurement response into exactly
// n floats in slot order. Empty fields read as 0. Fewer fields than n is an
// incomplete measurement and the sample must be discarded.
func ParseValueList(response string, n int) ([]float64, error) {
	fields := strings.Split(response, ",")
	if len(fields) < n {
		return nil, fmt.Errorf("%w: got %d of %d values in %q",
			ErrIncompleteMeasurement, len(fields), n, response)
	}

	values := make([]float64, n)
	for i := 0; i < n; i++ {
		field := strings.TrimSpace(fields[i])
		if field == "" {
			values[i] = 0
			continue
		}
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: field %d of %q is not numeric",
				ErrMalformedResponse, i+1, response)
		}
		values[i] = value
	}
	return values, nil
}

// ClassifyState decodes an integration state response. Matching is case
// insensitive and by substring since the instrument may echo the command
// header or abbreviate mnemonics (TIM for TIMEUP, RUN for RUNNING).
// TIMEUP is checked before STOP/RESET so a response carrying both tokens
// counts as complete.
func ClassifyState(response string) IntegratorState {
	upper := strings.ToUpper(response)
	switch {
	case strings.Contains(upper, "TIM"):
		return StateTimeUp
	case strings.Contains(upper, "RUN"):
		return StateRunning
	case strings.Contains(upper, "OVERFLOW"):
		return StateOverflow
	case strings.Contains(upper, "STOP"):
		return StateStopped
	case strings.Contains(upper, "RESET"):
		return StateReset
	default:
		return StateUnknown
	}
}
