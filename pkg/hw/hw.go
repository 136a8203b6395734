// Package hw defines the hardware handles the power sequencer drives.
// Every handle is optional for a given card slot; the sequencer treats
// a nil handle as "resource not present", which is a valid hardware
// configuration, not an error.
package hw

// Clock is an enable-gated clock source feeding the card. Enable may
// fail at runtime; Disable is fire-and-forget, matching gate hardware
// that cannot report a failed release.
type Clock interface {
	Enable() error
	Disable()
}

// LineArray is a set of boolean output lines (typically reset lines)
// that are always driven together. SetValues writes every line in one
// batch call; partial failure of an individual line is not modeled.
type LineArray interface {
	Len() int
	SetValues(values []bool) error
	Close() error
}

// Regulator is an adjustable voltage reference. SetVoltage asks the
// regulator to settle anywhere within [minUV, maxUV].
type Regulator interface {
	Microvolts() (int, error)
	SetVoltage(minUV, maxUV int) error
}
