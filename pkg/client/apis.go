package client

import (
	"encoding/json"
	"fmt"

	pkgerrors "github.com/pkg/errors"

	"github.com/mmcpwr/pwrseq/pkg/config"
)

func (c *Client) Devices() ([]string, error) {
	ret, err := c.Get("/devices")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to list devices")
	}

	var names []string
	if err := json.Unmarshal([]byte(ret), &names); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal device list")
	}

	return names, nil
}

func (c *Client) PowerState(device string) (string, error) {
	ret, err := c.Get(fmt.Sprintf("/devices/%s/power-state", device))
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get power state of %s", device)
	}
	return ret, nil
}

// SetPowerState writes a raw power-state token ("on", "1", "off", "0").
// The daemon consumes unrecognized tokens without effect and responds
// with the resulting state.
func (c *Client) SetPowerState(device, token string) (string, error) {
	return c.Put(fmt.Sprintf("/devices/%s/power-state", device), token)
}

// Vref returns the voltage-reference reading, which is the literal "na"
// when the device has no regulator.
func (c *Client) Vref(device string) (string, error) {
	ret, err := c.Get(fmt.Sprintf("/devices/%s/vref-uv", device))
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get vref of %s", device)
	}
	return ret, nil
}

// SetVref writes a raw voltage request: one microvolt value, or
// "min max".
func (c *Client) SetVref(device, input string) (string, error) {
	return c.Put(fmt.Sprintf("/devices/%s/vref-uv", device), input)
}

func (c *Client) GetConfig() (*config.RawFileConfig, error) {
	ret, err := c.Get("/config")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get config")
	}

	var conf config.RawFileConfig
	if err := json.Unmarshal([]byte(ret), &conf); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal config")
	}

	return &conf, nil
}

func (c *Client) Version() (string, error) {
	ret, err := c.Get("/version")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get daemon version")
	}

	var v string
	if err := json.Unmarshal([]byte(ret), &v); err != nil {
		return "", pkgerrors.Wrapf(err, "failed to unmarshal version")
	}

	return v, nil
}
