package scpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntResponse(t *testing.T) {
	t.Run("bare integer", func(t *testing.T) {
		v, err := ParseIntResponse("3")
		require.NoError(t, err)
		assert.Equal(t, 3, v)
	})

	t.Run("with echoed header", func(t *testing.T) {
		v, err := ParseIntResponse(":NUMERIC:NORMAL:NUMBER 4")
		require.NoError(t, err)
		assert.Equal(t, 4, v)
	})

	t.Run("empty response", func(t *testing.T) {
		_, err := ParseIntResponse("")
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("non-numeric", func(t *testing.T) {
		_, err := ParseIntResponse("NUMBER FOUR")
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})
}

func TestParseValueList(t *testing.T) {
	t.Run("three slots", func(t *testing.T) {
		values, err := ParseValueList("12.50,0.80,9.75", 3)
		require.NoError(t, err)
		assert.Equal(t, []float64{12.50, 0.80, 9.75}, values)
	})

	t.Run("all slot counts parse in order", func(t *testing.T) {
		resp := "1.0,2.0,3.0,4.0"
		for n := 1; n <= 4; n++ {
			values, err := ParseValueList(resp, n)
			require.NoError(t, err, "n=%d", n)
			require.Len(t, values, n)
			for i := 0; i < n; i++ {
				assert.Equal(t, float64(i+1), values[i])
			}
		}
	})

	t.Run("fewer fields than slots", func(t *testing.T) {
		_, err := ParseValueList("1.0,2.0", 3)
		assert.ErrorIs(t, err, ErrIncompleteMeasurement)
	})

	t.Run("extra fields are ignored", func(t *testing.T) {
		values, err := ParseValueList("1.0,2.0,3.0,4.0,5.0", 4)
		require.NoError(t, err)
		assert.Len(t, values, 4)
	})

	t.Run("empty field reads as zero", func(t *testing.T) {
		values, err := ParseValueList("1.0,,3.0", 3)
		require.NoError(t, err)
		assert.Equal(t, []float64{1.0, 0, 3.0}, values)
	})

	t.Run("non-numeric field", func(t *testing.T) {
		_, err := ParseValueList("1.0,abc,3.0", 3)
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("scientific notation", func(t *testing.T) {
		values, err := ParseValueList("1.2345E+01, 8.0E-01", 2)
		require.NoError(t, err)
		assert.InDelta(t, 12.345, values[0], 1e-9)
		assert.InDelta(t, 0.8, values[1], 1e-9)
	})
}

func TestClassifyState(t *testing.T) {
	tests := []struct {
		response string
		want     IntegratorState
	}{
		{"RUNNING", StateRunning},
		{"RUN", StateRunning},
		{"running", StateRunning},
		{":INTEGRATE:STATE RUN", StateRunning},
		{"TIMEUP", StateTimeUp},
		{"TIM", StateTimeUp},
		{"timeup", StateTimeUp},
		{"STOP", StateStopped},
		{"RESET", StateReset},
		{"OVERFLOW", StateOverflow},
		{"overflow", StateOverflow},
		{"ERROR 113", StateUnknown},
		{"", StateUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyState(tt.response), "response=%q", tt.response)
	}
}

// A response carrying both TIMEUP and STOP tokens must count as complete.
func TestClassifyStateTimeUpPrecedence(t *testing.T) {
	assert.Equal(t, StateTimeUp, ClassifyState("TIMEUP;STOP"))
	assert.Equal(t, StateTimeUp, ClassifyState("STOP AFTER TIMEUP"))
	assert.Equal(t, StateTimeUp, ClassifyState("RESET TO TIMEUP"))
}
