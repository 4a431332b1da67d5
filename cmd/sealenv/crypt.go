package main

import (
	"errors"
	"io"
	"strings"

	"github.com/railwayapp/sealenv/internal/detector"
	"github.com/spf13/cobra"
)

// readValue takes the value from args, or stdin when it is "-"
func readValue(cmd *cobra.Command, args []string) (string, error) {
	if args[0] != "-" {
		return args[0], nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func newEncryptCmd(a *app) *cobra.Command {
	var bare bool

	cmd := &cobra.Command{
		Use:   "encrypt VALUE",
		Short: "Encrypt a value and print it wrapped in the marker",
		Long: `Encrypt prints the value encrypted with the configured password and
algorithm, wrapped in the marker so it can be pasted into any configuration
source. Pass - to read the value from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := readValue(cmd, args)
			if err != nil {
				return err
			}

			enc, err := a.encryptor()
			if err != nil {
				return err
			}
			token, err := enc.Encrypt(value)
			if err != nil {
				return err
			}

			if !bare {
				d, err := a.detector()
				if err != nil {
					return err
				}
				if w, ok := d.(detector.Wrapper); ok {
					token = w.Wrap(token)
				}
			}

			printf(cmd, "%s\n", token)
			return nil
		},
	}

	cmd.Flags().BoolVar(&bare, "bare", false, "print the token without the marker")
	return cmd
}

func newDecryptCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decrypt VALUE",
		Short: "Decrypt a marked value or a bare token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := readValue(cmd, args)
			if err != nil {
				return err
			}

			d, err := a.detector()
			if err != nil {
				return err
			}
			token := value
			if d.IsEncrypted(value) {
				if token, err = d.Unwrap(value); err != nil {
					return err
				}
			}
			if token == "" {
				return errors.New("nothing to decrypt")
			}

			enc, err := a.encryptor()
			if err != nil {
				return err
			}
			plaintext, err := enc.Decrypt(token)
			if err != nil {
				return err
			}

			printf(cmd, "%s\n", plaintext)
			return nil
		},
	}
}
