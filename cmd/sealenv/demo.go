package main

import (
	"github.com/spf13/cobra"
)

// demoService receives its secrets through property binding
type demoService struct {
	Secret  string `mapstructure:"secret.property"`
	Secret2 string `mapstructure:"secret2.property"`
}

func newDemoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Show encrypted properties resolved through the environment and a bound service",
		Long: `Demo resolves secret.property and secret2.property directly from the
environment and through a service bound to it, and logs both. Provide the
values with --set, --file or SECRET_PROPERTY / SECRET2_PROPERTY and the
password with --password or SEALENV_ENCRYPTOR_PASSWORD.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := a.environment(ctx)
			if err != nil {
				return err
			}

			for _, key := range []string{"secret.property", "secret2.property"} {
				value, found, err := env.Get(ctx, key)
				if err != nil {
					return err
				}
				a.logger.Info("Environment's secret", "key", key, "value", value, "found", found)
			}

			var service demoService
			if err := env.Bind(ctx, &service); err != nil {
				return err
			}
			a.logger.Info("MyService's secret", "value", service.Secret)
			a.logger.Info("MyService's secret2", "value", service.Secret2)

			a.logger.Info("Done!")
			return nil
		},
	}
}
