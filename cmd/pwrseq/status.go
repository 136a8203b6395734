package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type deviceStatus struct {
	name  string
	state string
	vref  string
}

// fetchStatusData gathers per-device state for the status command from the daemon.
func fetchStatusData() ([]deviceStatus, error) {
	c := newAPIClient()

	names, err := c.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	statuses := make([]deviceStatus, 0, len(names))
	for _, name := range names {
		state, err := c.PowerState(name)
		if err != nil {
			return nil, fmt.Errorf("failed to get power state of %s: %w", name, err)
		}

		vref, err := c.Vref(name)
		if err != nil {
			return nil, fmt.Errorf("failed to get vref of %s: %w", name, err)
		}

		statuses = append(statuses, deviceStatus{name: name, state: state, vref: vref})
	}

	return statuses, nil
}

func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		GroupID: gBasic,
		Short:   "Get the current status of all managed devices",
		Long:    `Get the power state and voltage reference of every device the daemon manages.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			statuses, err := fetchStatusData()
			if err != nil {
				return err
			}

			if len(statuses) == 0 {
				cmd.Println("no devices configured")
				return nil
			}

			bold := color.New(color.Bold)
			green := color.New(color.FgGreen)
			red := color.New(color.FgRed)

			for _, s := range statuses {
				stateStr := red.Sprint(s.state)
				if s.state == "on" {
					stateStr = green.Sprint(s.state)
				}

				vrefStr := s.vref
				if vrefStr != "na" {
					vrefStr += " uV"
				}

				cmd.Printf("%s: power %s, vref %s\n", bold.Sprint(s.name), stateStr, vrefStr)
			}

			return nil
		},
	}
}
