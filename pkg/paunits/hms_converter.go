package paunits

// Maximum hours accepted by the integration timer command.
const MaxTimerHours = 9999

// SecondsToHMS decomposes a duration in seconds into the hours, minutes and
// seconds fields of the integration timer command. Hours are clamped to the
// instrument's 9999 hour limit.
func SecondsToHMS(seconds int) (h, m, s int) {
	h = seconds / 3600
	m = (seconds % 3600) / 60
	s = seconds % 60
	if h > MaxTimerHours {
		h = MaxTimerHours
	}
	return h, m, s
}

func HMSToSeconds(h, m, s int) int {
	return h*3600 + m*60 + s
}

// AveragePowerW computes interval average power in watts from accumulated
// watt-hours over the given interval. Near-zero intervals yield 0.
func AveragePowerW(wattHours float64, intervalSeconds int) float64 {
	intervalHours := float64(intervalSeconds) / 3600.0
	if intervalHours <= 1e-9 {
		return 0
	}
	return wattHours / intervalHours
}
