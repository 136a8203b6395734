package pwrseq

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mmcpwr/pwrseq/pkg/hw"
)

func TestApplyPowerState(t *testing.T) {
	tests := []struct {
		name   string
		inputs []string
		want   string
	}{
		{name: "on token", inputs: []string{"on"}, want: "on"},
		{name: "numeric on token", inputs: []string{"1"}, want: "on"},
		{name: "off token", inputs: []string{"on", "off"}, want: "off"},
		{name: "numeric off token", inputs: []string{"on", "0"}, want: "off"},
		{name: "trailing newline tolerated", inputs: []string{"on\n"}, want: "on"},
		{name: "tokens are case-sensitive", inputs: []string{"ON"}, want: "off"},
		{name: "garbage ignored", inputs: []string{"bogus"}, want: "off"},
		{name: "garbage leaves prior state", inputs: []string{"on", "standby"}, want: "on"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(Options{Clock: hw.NewMockClock(), Lines: hw.NewMockLineArray(1)})
			for _, in := range tt.inputs {
				s.ApplyPowerState(in)
			}
			assert.Equal(t, tt.want, s.PowerState())
		})
	}
}

func TestManualOnPulsesReset(t *testing.T) {
	clk := hw.NewMockClock()
	lines := hw.NewMockLineArray(2)
	s := New(Options{Clock: clk, Lines: lines})

	s.ApplyPowerState("on")

	// Assert-then-release pulse: two batch writes, lines released last.
	assert.Equal(t, 2, lines.Writes())
	assert.Equal(t, []bool{false, false}, lines.Values())
	assert.True(t, s.ClockEnabled())
}

func TestManualOnWithoutLinesReturnsImmediately(t *testing.T) {
	clk := hw.NewMockClock()
	s := New(Options{Clock: clk})

	start := time.Now()
	s.ApplyPowerState("on")

	assert.True(t, s.ClockEnabled())
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestMicrovoltsWithoutRegulator(t *testing.T) {
	s := New(Options{})

	_, ok := s.Microvolts()
	assert.False(t, ok)

	// Writes against an absent regulator are consumed without effect.
	s.ApplyMicrovolts("3300000")
	_, ok = s.Microvolts()
	assert.False(t, ok)
}

func TestApplyMicrovolts(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "single value", input: "3100000", want: 3100000},
		{name: "single value with newline", input: "3100000\n", want: 3100000},
		{name: "min and max", input: "3200000 3400000", want: 3200000},
		{name: "extra fields use first two", input: "3200000 3400000 9", want: 3200000},
		{name: "non-numeric ignored", input: "three volts", want: 3300000},
		{name: "empty ignored", input: "", want: 3300000},
		{name: "partially numeric ignored", input: "5 apples", want: 3300000},
		{name: "inverted range rejected by regulator", input: "3400000 3200000", want: 3300000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(Options{Vref: hw.NewMockRegulator(3300000)})

			s.ApplyMicrovolts(tt.input)

			uv, ok := s.Microvolts()
			assert.True(t, ok)
			assert.Equal(t, tt.want, uv)
		})
	}
}
