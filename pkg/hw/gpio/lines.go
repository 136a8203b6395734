// Package gpio backs a hw.LineArray with the Linux GPIO character
// device.
package gpio

import (
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/warthog618/go-gpiocdev"
)

// Lines drives a set of GPIO offsets on one chip as a single batch.
type Lines struct {
	lines *gpiocdev.Lines
	count int
}

// RequestLines requests the given offsets as outputs. The lines are
// driven asserted at request time, holding the card in reset until the
// first power transition runs.
func RequestLines(chip string, offsets []int) (*Lines, error) {
	initial := make([]int, len(offsets))
	for i := range initial {
		initial[i] = 1
	}

	lines, err := gpiocdev.RequestLines(chip, offsets, gpiocdev.AsOutput(initial...))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to request lines %v on %s", offsets, chip)
	}

	logrus.WithFields(logrus.Fields{
		"chip":    chip,
		"offsets": offsets,
	}).Debug("requested reset lines")

	return &Lines{lines: lines, count: len(offsets)}, nil
}

func (l *Lines) Len() int {
	return l.count
}

func (l *Lines) SetValues(values []bool) error {
	if len(values) != l.count {
		return pkgerrors.Errorf("expected %d values, got %d", l.count, len(values))
	}

	ints := make([]int, len(values))
	for i, v := range values {
		if v {
			ints[i] = 1
		}
	}

	return l.lines.SetValues(ints)
}

func (l *Lines) Close() error {
	return l.lines.Close()
}
