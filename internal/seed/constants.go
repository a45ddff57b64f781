package seed

import "time"

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	DefaultTimeout       = 10 * time.Second
	PercentageMultiplier = 100
	progressInterval     = time.Second
	totalTolerance       = 1e-9
)
