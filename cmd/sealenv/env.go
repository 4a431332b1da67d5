package main

import (
	"fmt"

	"github.com/railwayapp/sealenv/internal/export"
	"github.com/spf13/cobra"
)

func newEnvCmd(a *app) *cobra.Command {
	var (
		format string
		reveal bool
	)

	cmd := &cobra.Command{
		Use:   "env",
		Short: "Resolve and print every known property",
		Long: `Env resolves every property defined by the configured files and the
prefixed environment. Sensitive and decrypted values are masked unless
--reveal is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exporter, err := export.New(format, export.Options{Reveal: reveal})
			if err != nil {
				return err
			}

			env, err := a.environment(cmd.Context())
			if err != nil {
				return err
			}

			props, resolveErr := env.Resolve(cmd.Context())
			if resolveErr != nil {
				a.logger.Error("some properties could not be resolved", "error", resolveErr)
			}

			out, err := exporter.Export(props)
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(out); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			return resolveErr
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", "text", "output format: text, json, yaml, dotenv")
	cmd.Flags().BoolVar(&reveal, "reveal", false, "print sensitive values in clear text")
	return cmd
}
