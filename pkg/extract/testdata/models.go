// Package testdata contains test types for LCM schema extraction.
package testdata

// Status enumerates a sensor's operating mode.
type Status int32

const (
	StatusUnknown Status = iota
	StatusActive
	StatusInactive
)

// Reading is a single timestamped sensor sample.
type Reading struct {
	Utime  int64
	Value  float64
	Status Status
}

// Batch groups a variable-length run of readings alongside a fixed 3-axis
// calibration vector.
type Batch struct {
	NumReadings int32
	Readings    []Reading `lcm:"NumReadings"`
	Calibration [3]float64
	Label       string
	internal    string // unexported, excluded from extraction
	Scratch     string `lcm:"-"`
}

// Grid is a fixed-size 2D array of bytes, exercising multi-dimensional
// CONST array extraction.
type Grid struct {
	Cells [4][4]byte
}
