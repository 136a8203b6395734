package pwrseq

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/mmcpwr/pwrseq/pkg/hw"
)

func TestFullCycleLeavesClockOffAndLinesAsserted(t *testing.T) {
	clk := hw.NewMockClock()
	lines := hw.NewMockLineArray(2)
	s := New(Options{Clock: clk, Lines: lines})

	s.PrePowerOn()
	assert.True(t, s.ClockEnabled())
	assert.Equal(t, []bool{true, true}, lines.Values())

	s.PostPowerOn()
	assert.Equal(t, []bool{false, false}, lines.Values())

	s.PowerOff()
	assert.False(t, s.ClockEnabled())
	assert.Equal(t, []bool{true, true}, lines.Values())
	assert.Equal(t, 1, clk.Enables())
	assert.Equal(t, 1, clk.Disables())
}

func TestPrePowerOnIsIdempotent(t *testing.T) {
	clk := hw.NewMockClock()
	lines := hw.NewMockLineArray(3)
	s := New(Options{Clock: clk, Lines: lines})

	s.PrePowerOn()
	s.PrePowerOn()

	assert.Equal(t, 1, clk.Enables(), "clock must not be double-enabled")
	assert.True(t, s.ClockEnabled())
	assert.Equal(t, []bool{true, true, true}, lines.Values())
}

func TestPowerOffWithoutPrepareLeavesClockAlone(t *testing.T) {
	clk := hw.NewMockClock()
	s := New(Options{Clock: clk})

	s.PowerOff()

	assert.Equal(t, 0, clk.Disables())
	assert.False(t, s.ClockEnabled())
}

func TestClockEnableFailureDoesNotAbortPowerOn(t *testing.T) {
	clk := hw.NewMockClock()
	clk.EnableErr = errors.New("pll did not lock")
	lines := hw.NewMockLineArray(1)
	s := New(Options{Clock: clk, Lines: lines})

	s.PrePowerOn()

	// Forward progress over strictness: the failed enable is accounted
	// as enabled and the sequence continues.
	assert.True(t, s.ClockEnabled())
	assert.Equal(t, []bool{true}, lines.Values())

	s.PowerOff()
	assert.Equal(t, 1, clk.Disables())
	assert.False(t, s.ClockEnabled())
}

func TestJitteredStaysInHalfOpenRange(t *testing.T) {
	for _, d := range []time.Duration{
		time.Microsecond,
		200 * time.Microsecond,
		1000 * time.Microsecond,
		50 * time.Millisecond,
	} {
		for i := 0; i < 200; i++ {
			got := jittered(d)
			assert.GreaterOrEqual(t, got, d)
			assert.Less(t, got, 2*d)
		}
	}
}

func TestPostPowerOnDelayBlocks(t *testing.T) {
	s := New(Options{PostPowerOnDelay: 20 * time.Millisecond})

	start := time.Now()
	s.PostPowerOn()
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestPowerOffDelayBlocksAtLeastBase(t *testing.T) {
	s := New(Options{PowerOffDelay: 2 * time.Millisecond})

	start := time.Now()
	s.PowerOff()
	assert.GreaterOrEqual(t, time.Since(start), 2*time.Millisecond)
}

func TestNoResourcesIsPureNoop(t *testing.T) {
	s := New(Options{})

	start := time.Now()
	s.PrePowerOn()
	s.PostPowerOn()
	s.PowerOff()

	assert.False(t, s.ClockEnabled())
	assert.Equal(t, "off", s.PowerState())
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestZeroLengthLineArrayIsNoop(t *testing.T) {
	lines := hw.NewMockLineArray(0)
	s := New(Options{Lines: lines})

	s.PrePowerOn()
	s.PostPowerOn()
	s.PowerOff()

	assert.Equal(t, 0, lines.Writes())
}

// The scenario from bring-up: two reset lines, no clock, no regulator,
// 5ms post-power-on settle, 200us jittered power-off settle.
func TestResetOnlySlotSequence(t *testing.T) {
	lines := hw.NewMockLineArray(2)
	s := New(Options{
		Lines:            lines,
		PostPowerOnDelay: 5 * time.Millisecond,
		PowerOffDelay:    200 * time.Microsecond,
	})

	s.PrePowerOn()
	assert.Equal(t, []bool{true, true}, lines.Values())
	assert.False(t, s.ClockEnabled())

	start := time.Now()
	s.PostPowerOn()
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
	assert.Equal(t, []bool{false, false}, lines.Values())

	start = time.Now()
	s.PowerOff()
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Microsecond)
	assert.Equal(t, []bool{true, true}, lines.Values())
	assert.False(t, s.ClockEnabled())

	assert.Equal(t, 3, lines.Writes())
}
