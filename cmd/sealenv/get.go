package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGetCmd(a *app) *cobra.Command {
	var showSource bool

	cmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Print the effective value of a property",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.environment(cmd.Context())
			if err != nil {
				return err
			}

			prop, found, err := env.Property(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("property %s is not set", args[0])
			}

			printf(cmd, "%s\n", prop.Value)
			if showSource {
				printf(cmd, "  Source: %s\n", prop.Source)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showSource, "show-source", false, "also print which source served the value")
	return cmd
}
