package config

import "time"

type Config interface {
	AllowNonRootAccess() bool
	Devices() []Device

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error
}

// Device describes one card slot: which power resources it has and how
// long the sequencer must wait at each settling point. Every resource
// stanza is optional; an omitted stanza means the slot simply does not
// have that resource.
type Device struct {
	Name               string     `json:"name"`
	PostPowerOnDelayMs *int       `json:"postPowerOnDelayMs,omitempty"`
	PowerOffDelayUs    *int       `json:"powerOffDelayUs,omitempty"`
	Clock              *ClockConf `json:"clock,omitempty"`
	ResetLines         *LinesConf `json:"resetLines,omitempty"`
	Vref               *VrefConf  `json:"vref,omitempty"`
}

type ClockConf struct {
	Backend string `json:"backend"`
}

type LinesConf struct {
	Backend string `json:"backend"`
	// gpiocdev backend
	Chip    string `json:"chip,omitempty"`
	Offsets []int  `json:"offsets,omitempty"`
	// mock backend
	Count int `json:"count,omitempty"`
}

type VrefConf struct {
	Backend    string `json:"backend"`
	Microvolts int    `json:"microvolts,omitempty"`
}

// PostPowerOnDelay returns the configured post-power-on settling delay.
// Zero means no delay.
func (d *Device) PostPowerOnDelay() time.Duration {
	if d.PostPowerOnDelayMs == nil {
		return 0
	}
	return time.Duration(*d.PostPowerOnDelayMs) * time.Millisecond
}

// PowerOffDelay returns the base of the jittered power-off settling
// delay. Zero means no delay.
func (d *Device) PowerOffDelay() time.Duration {
	if d.PowerOffDelayUs == nil {
		return 0
	}
	return time.Duration(*d.PowerOffDelayUs) * time.Microsecond
}
