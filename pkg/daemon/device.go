package daemon

import (
	"sync"

	pkgerrors "github.com/pkg/errors"

	"github.com/mmcpwr/pwrseq/pkg/config"
	"github.com/mmcpwr/pwrseq/pkg/hw"
	"github.com/mmcpwr/pwrseq/pkg/pwrseq"
)

// device is one managed card slot. The sequencer demands a single
// logical caller; the daemon is that caller, and mu serializes the
// HTTP handlers and the shutdown path per slot.
type device struct {
	name    string
	seq     *pwrseq.Sequencer
	handles hw.Handles
	mu      sync.Mutex
}

// buildDevices resolves every configured device's handles and
// constructs its sequencer. Any acquisition failure is fatal to the
// whole daemon startup; handles opened so far are released.
func buildDevices(devs []config.Device) (map[string]*device, error) {
	out := make(map[string]*device, len(devs))

	closeAll := func() {
		for _, d := range out {
			d.handles.Close()
		}
	}

	for i := range devs {
		dev := &devs[i]

		if dev.Name == "" {
			closeAll()
			return nil, pkgerrors.New("device with empty name in config")
		}
		if _, ok := out[dev.Name]; ok {
			closeAll()
			return nil, pkgerrors.Errorf("duplicate device name %q in config", dev.Name)
		}

		handles, err := hw.Open(dev)
		if err != nil {
			closeAll()
			return nil, err
		}

		out[dev.Name] = &device{
			name:    dev.Name,
			handles: handles,
			seq: pwrseq.New(pwrseq.Options{
				Clock:            handles.Clock,
				Lines:            handles.Lines,
				Vref:             handles.Vref,
				PostPowerOnDelay: dev.PostPowerOnDelay(),
				PowerOffDelay:    dev.PowerOffDelay(),
			}),
		}
	}

	return out, nil
}
