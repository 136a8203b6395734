package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mmcpwr/pwrseq/pkg/version"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s\n", version.Version, version.GitCommit)
		},
	}
}

func NewOnCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "on [device]",
		Short:   "Manually power a device on",
		GroupID: gBasic,
		Long: `Manually power a device on.

This replays the full power-on sequence outside the host's own flow: the clock is enabled, reset is pulsed, and the post-power-on settling delay elapses before the command returns.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ret, err := newAPIClient().SetPowerState(args[0], "on")
			if err != nil {
				return fmt.Errorf("failed to power on %s: %v", args[0], err)
			}

			logrus.Infof("device %s is now %s", args[0], ret)

			return nil
		},
	}
}

func NewOffCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "off [device]",
		Short:   "Manually power a device off",
		GroupID: gBasic,
		Long: `Manually power a device off.

Reset is asserted, the power-off settling delay elapses, and the clock is gated off.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ret, err := newAPIClient().SetPowerState(args[0], "off")
			if err != nil {
				return fmt.Errorf("failed to power off %s: %v", args[0], err)
			}

			logrus.Infof("device %s is now %s", args[0], ret)

			return nil
		},
	}
}

func NewVrefCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "vref [device] [microvolts | min max]",
		Short:   "Read or set the voltage reference",
		GroupID: gBasic,
		Long: `Read or set a device's voltage reference.

With no value, prints the current output voltage in microvolts, or "na" when the device has no regulator. With one value, requests exactly that voltage. With two values, lets the regulator settle anywhere within [min, max].`,
		Args: cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newAPIClient()

			if len(args) == 1 {
				ret, err := c.Vref(args[0])
				if err != nil {
					return fmt.Errorf("failed to read vref of %s: %v", args[0], err)
				}
				cmd.Println(ret)
				return nil
			}

			if _, err := c.SetVref(args[0], strings.Join(args[1:], " ")); err != nil {
				return fmt.Errorf("failed to set vref of %s: %v", args[0], err)
			}

			ret, err := c.Vref(args[0])
			if err != nil {
				return fmt.Errorf("failed to read back vref of %s: %v", args[0], err)
			}

			logrus.Infof("vref of %s is now %s uV", args[0], ret)

			return nil
		},
	}
}

func NewConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "config",
		Short:   "Print the daemon's loaded configuration",
		GroupID: gAdvanced,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := newAPIClient().GetConfig()
			if err != nil {
				return fmt.Errorf("failed to get config: %v", err)
			}

			b, err := json.MarshalIndent(conf, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal config: %v", err)
			}

			cmd.Println(string(b))

			return nil
		},
	}
}
