// Package pwrseq implements the power-up and power-down sequencing of
// a removable card's rails and auxiliary signals.
//
// The order of the three transitions is fixed hardware policy: the
// clock must be stable before the card can respond, so it is enabled
// before reset is asserted on power-on and disabled only after reset is
// reasserted on power-off. Reset lines are held asserted whenever the
// rails are unstable and released only after the post-power-on settling
// delay.
package pwrseq

import (
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mmcpwr/pwrseq/pkg/hw"
)

// Sequencer owns one card slot's power resources and drives them in a
// fixed order with settling delays. Operations are blocking and must be
// invoked by a single logical caller at a time; the sequencer has no
// internal locking.
type Sequencer struct {
	clk   hw.Clock
	lines hw.LineArray
	vref  hw.Regulator

	clkEnabled bool

	postPowerOnDelay time.Duration
	powerOffDelay    time.Duration
}

// Options configures a Sequencer. Any of the three handles may be nil,
// in which case the corresponding steps are no-ops.
type Options struct {
	Clock hw.Clock
	Lines hw.LineArray
	Vref  hw.Regulator

	// PostPowerOnDelay is slept in full after reset is released.
	PostPowerOnDelay time.Duration
	// PowerOffDelay is the base of the jittered sleep after reset is
	// reasserted; the actual sleep is drawn from [d, 2d).
	PowerOffDelay time.Duration
}

func New(opts Options) *Sequencer {
	return &Sequencer{
		clk:              opts.Clock,
		lines:            opts.Lines,
		vref:             opts.Vref,
		postPowerOnDelay: opts.PostPowerOnDelay,
		powerOffDelay:    opts.PowerOffDelay,
	}
}

// PrePowerOn enables the clock and asserts the reset lines, preparing
// the card for the rail coming up. A clock that fails to enable is
// still accounted as enabled and the failure is only logged: once a
// power-on has started it proceeds as far as possible rather than
// aborting the host's sequence.
func (s *Sequencer) PrePowerOn() {
	if s.clk != nil && !s.clkEnabled {
		if err := s.clk.Enable(); err != nil {
			logrus.Warnf("clock enable failed, continuing power-on: %v", err)
		}
		s.clkEnabled = true
	}

	s.setLinesValue(true)
}

// PostPowerOn releases reset and waits for the card to settle.
func (s *Sequencer) PostPowerOn() {
	s.setLinesValue(false)

	if s.postPowerOnDelay > 0 {
		time.Sleep(s.postPowerOnDelay)
	}
}

// PowerOff puts the card back into reset, waits out the jittered
// settling delay, and gates the clock off.
func (s *Sequencer) PowerOff() {
	s.setLinesValue(true)

	if s.powerOffDelay > 0 {
		time.Sleep(jittered(s.powerOffDelay))
	}

	if s.clk != nil && s.clkEnabled {
		s.clk.Disable()
		s.clkEnabled = false
	}
}

// ClockEnabled reports whether this sequencer currently holds the clock
// gate open. Always false when no clock is configured.
func (s *Sequencer) ClockEnabled() bool {
	return s.clkEnabled
}

// jittered returns a duration in [d, 2d). The slack absorbs scheduler
// jitter; the bound is asymmetric on purpose to never sleep less than
// the hardware's minimum settling time.
func jittered(d time.Duration) time.Duration {
	return d + time.Duration(rand.Int63n(int64(d)))
}

// setLinesValue drives every configured line to the same value in one
// batch write. No lines configured is a valid state and a no-op; a
// failed batch write is logged and swallowed, a transition never aborts
// mid-sequence.
func (s *Sequencer) setLinesValue(active bool) {
	if s.lines == nil {
		return
	}

	n := s.lines.Len()
	if n == 0 {
		return
	}

	values := make([]bool, n)
	if active {
		for i := range values {
			values[i] = true
		}
	}

	if err := s.lines.SetValues(values); err != nil {
		logrus.Warnf("reset line write failed: %v", err)
	}
}
