package pwrseq

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// The manual-override surface replays the power transitions outside the
// host's own state machine, for diagnostics and bring-up. Inputs are
// the raw text an operator writes to the control endpoints; anything
// unrecognized is consumed and ignored, never reported as an error.

// PowerState returns "on" while the sequencer holds the clock gate
// open, "off" otherwise.
func (s *Sequencer) PowerState() string {
	if s.clkEnabled {
		return "on"
	}
	return "off"
}

// ApplyPowerState forces the sequencer on or off. "on"/"1" runs the
// full power-on sequence collapsed into one call: clock on, reset
// asserted, reset released, settle. "off"/"0" is the power-off
// sequence. Tokens are case-sensitive; a trailing newline is tolerated.
func (s *Sequencer) ApplyPowerState(input string) {
	switch strings.TrimSuffix(input, "\n") {
	case "on", "1":
		s.PrePowerOn()
		s.PostPowerOn()
	case "off", "0":
		s.PowerOff()
	default:
		logrus.Debugf("ignoring unrecognized power-state input %q", input)
	}
}

// Microvolts reads the voltage reference. The second return is false
// when the slot has no regulator (the endpoints report "na") or the
// regulator cannot be read.
func (s *Sequencer) Microvolts() (int, bool) {
	if s.vref == nil {
		return 0, false
	}

	uv, err := s.vref.Microvolts()
	if err != nil {
		logrus.Warnf("failed to read vref voltage: %v", err)
		return 0, false
	}

	return uv, true
}

// ApplyMicrovolts parses an operator voltage request: either a single
// microvolt value (min == max) or two space-separated values (min,
// max). Malformed input and requests against an absent regulator are
// consumed without effect.
func (s *Sequencer) ApplyMicrovolts(input string) {
	if s.vref == nil {
		return
	}

	fields := strings.Fields(input)

	var minUV, maxUV int
	switch {
	case len(fields) == 1:
		v, err := strconv.Atoi(fields[0])
		if err != nil {
			logrus.Debugf("ignoring unparseable vref input %q", input)
			return
		}
		minUV, maxUV = v, v
	case len(fields) >= 2:
		a, err1 := strconv.Atoi(fields[0])
		b, err2 := strconv.Atoi(fields[1])
		if err1 != nil || err2 != nil {
			logrus.Debugf("ignoring unparseable vref input %q", input)
			return
		}
		minUV, maxUV = a, b
	default:
		logrus.Debugf("ignoring empty vref input")
		return
	}

	if err := s.vref.SetVoltage(minUV, maxUV); err != nil {
		logrus.Warnf("failed to set vref voltage to [%d, %d]: %v", minUV, maxUV, err)
	}
}
