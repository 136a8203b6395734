package hw

import (
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mmcpwr/pwrseq/pkg/config"
	"github.com/mmcpwr/pwrseq/pkg/hw/gpio"
)

// Handles holds the resolved resources of one card slot. Any of the
// three may be nil; a nil handle means the slot does not have that
// resource.
type Handles struct {
	Clock Clock
	Lines LineArray
	Vref  Regulator
}

// Open resolves the handles a device's configuration asks for. An
// omitted resource stanza yields a nil handle. A stanza that is present
// but cannot be opened is fatal: the caller must not construct a
// sequencer for the device.
func Open(dev *config.Device) (Handles, error) {
	var h Handles

	if dev.Clock != nil {
		switch dev.Clock.Backend {
		case "mock":
			h.Clock = NewMockClock()
		default:
			return Handles{}, pkgerrors.Errorf("device %s: unknown clock backend %q", dev.Name, dev.Clock.Backend)
		}
	}

	if dev.ResetLines != nil {
		switch dev.ResetLines.Backend {
		case "mock":
			h.Lines = NewMockLineArray(dev.ResetLines.Count)
		case "gpiocdev":
			lines, err := gpio.RequestLines(dev.ResetLines.Chip, dev.ResetLines.Offsets)
			if err != nil {
				return Handles{}, pkgerrors.Wrapf(err, "device %s: failed to open reset lines", dev.Name)
			}
			h.Lines = lines
		default:
			return Handles{}, pkgerrors.Errorf("device %s: unknown reset line backend %q", dev.Name, dev.ResetLines.Backend)
		}
	}

	if dev.Vref != nil {
		switch dev.Vref.Backend {
		case "mock":
			h.Vref = NewMockRegulator(dev.Vref.Microvolts)
		default:
			return Handles{}, pkgerrors.Errorf("device %s: unknown vref backend %q", dev.Name, dev.Vref.Backend)
		}
	}

	logrus.WithFields(logrus.Fields{
		"device": dev.Name,
		"clock":  h.Clock != nil,
		"lines":  h.Lines != nil,
		"vref":   h.Vref != nil,
	}).Debug("resolved device handles")

	return h, nil
}

// Close releases whatever handles were opened.
func (h Handles) Close() {
	if h.Lines != nil {
		if err := h.Lines.Close(); err != nil {
			logrus.Warnf("failed to close line array: %v", err)
		}
	}
}
