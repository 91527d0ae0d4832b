package repair

import "fmt"

// bytesPerMB converts between megabytes and bytes.
const bytesPerMB = 1024 * 1024

// DefaultThresholdMB is the size above which repaired output must go to disk.
const DefaultThresholdMB = 10.0

// Mode tells where a repair result is delivered.
type Mode int

const (
	// InMemory returns the records to the caller.
	InMemory Mode = iota
	// OnDisk writes a file at the requested target path.
	OnDisk
)

func (m Mode) String() string {
	switch m {
	case InMemory:
		return "in-memory"
	case OnDisk:
		return "on-disk"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Decide picks the delivery mode for a source of sizeBytes.
// A target path always means OnDisk. Without one, sources up to the threshold
// stay in memory and larger ones fail with ErrMissingOutputPath.
func Decide(sizeBytes, thresholdBytes int64, targetSet bool) (Mode, error) {
	if targetSet {
		return OnDisk, nil
	}
	if sizeBytes > thresholdBytes {
		return InMemory, fmt.Errorf("%w: %.2fMB exceeds the %.2fMB threshold",
			ErrMissingOutputPath, toMB(sizeBytes), toMB(thresholdBytes))
	}
	return InMemory, nil
}

// ThresholdBytes converts a threshold in MB to bytes.
// A zero threshold selects DefaultThresholdMB.
func ThresholdBytes(thresholdMB float64) (int64, error) {
	if thresholdMB < 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidThreshold, thresholdMB)
	}
	if thresholdMB == 0 {
		thresholdMB = DefaultThresholdMB
	}
	return int64(thresholdMB * bytesPerMB), nil
}

func toMB(n int64) float64 {
	return float64(n) / bytesPerMB
}
