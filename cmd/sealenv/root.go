package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/railwayapp/sealenv/internal/config"
	"github.com/railwayapp/sealenv/internal/detector"
	"github.com/railwayapp/sealenv/internal/encryptor"
	"github.com/railwayapp/sealenv/internal/environment"
	"github.com/railwayapp/sealenv/internal/filesystems"
	"github.com/railwayapp/sealenv/internal/logging"
	"github.com/railwayapp/sealenv/internal/sources"
	"github.com/spf13/cobra"
)

// app carries state shared by subcommands once the root command has
// loaded configuration
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "sealenv",
		Short: "Resolve configuration with encrypted ENC@ values",
		Long: `sealenv loads configuration from command-line overrides, the process
environment and configuration files, in that order of precedence. Values
wrapped in the encryption marker (ENC@ by default) are decrypted with the
configured password before they are used.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, used, err := config.Load(cmd.Flags(), a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
			if used != "" {
				a.logger.Debug("using config file", "path", used)
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.sealenv.yaml)")
	flags.String("password", "", "encryptor password (or SEALENV_ENCRYPTOR_PASSWORD)")
	flags.String("algorithm", encryptor.DefaultAlgorithm, "encryption algorithm")
	flags.Int("iterations", encryptor.DefaultIterations, "key derivation iterations")
	flags.String("prefix", detector.DefaultPrefix, "encrypted value marker prefix")
	flags.String("suffix", "", "encrypted value marker suffix")
	flags.StringSlice("file", nil, "configuration file to load, later files take precedence (repeatable)")
	flags.StringArray("set", nil, "override a property as key=value (repeatable)")
	flags.String("env-prefix", "", "only consult environment variables with this prefix")
	flags.Bool("cache", true, "memoise decrypted values")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", "text", "log format: text or json")

	rootCmd.AddCommand(
		newGetCmd(a),
		newEnvCmd(a),
		newEncryptCmd(a),
		newDecryptCmd(a),
		newDemoCmd(a),
	)

	return rootCmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *app) detector() (detector.Detector, error) {
	return detector.New(a.cfg.Detector.Prefix, a.cfg.Detector.Suffix)
}

func (a *app) encryptor() (*encryptor.PBEEncryptor, error) {
	return encryptor.NewPBEEncryptor(encryptor.Options{
		Password:   a.cfg.Encryptor.Password,
		Algorithm:  a.cfg.Encryptor.Algorithm,
		Iterations: a.cfg.Encryptor.Iterations,
	})
}

// environment assembles the sources: --set overrides, then the process
// environment, then files with the last one named winning
func (a *app) environment(ctx context.Context) (*environment.Environment, error) {
	d, err := a.detector()
	if err != nil {
		return nil, err
	}

	opts := []environment.Option{
		environment.WithDetector(d),
		environment.WithLogger(a.logger),
		environment.WithCache(a.cfg.Cache),
	}

	if a.cfg.Encryptor.Password != "" {
		enc, err := a.encryptor()
		if err != nil {
			return nil, err
		}
		opts = append(opts, environment.WithDecrypter(enc))
	}

	overrides, err := sources.ParseAssignments(a.cfg.Sources.Set)
	if err != nil {
		return nil, err
	}
	srcs := []sources.Source{
		sources.NewMapSource("args", overrides),
		sources.NewEnvSource(a.cfg.Sources.EnvPrefix),
	}

	filesystem := filesystems.NewLocalFS("")
	files := a.cfg.Sources.Files
	for i := len(files) - 1; i >= 0; i-- {
		src, err := sources.LoadFile(ctx, filesystem, files[i])
		if err != nil {
			return nil, err
		}
		a.logger.Debug("loaded configuration file", "path", src.Path(), "format", src.Format(), "keys", len(src.Keys()))
		srcs = append(srcs, src)
	}

	opts = append(opts, environment.WithSources(srcs...))
	return environment.New(opts...), nil
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
