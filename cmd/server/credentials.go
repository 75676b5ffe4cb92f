package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"micampo/pkg/credential"
)

func credentialsCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "credentials",
		Short: "Manage API keys stored in the OS keyring",
		Long: `Stores the OpenWeather and OpenAI keys in the OS keyring. They are read
at startup when CREDENTIAL_STORE=keyring and the environment has no key.

Keys: ` + credential.OpenWeatherKey + `, ` + credential.OpenAIKey,
	}
	root.AddCommand(&cobra.Command{
		Use:   "set [key] [value]",
		Short: "Store a credential",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !credential.Known(args[0]) {
				return fmt.Errorf("unknown credential %q", args[0])
			}
			if err := credential.Set(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored %s\n", args[0])
			return nil
		},
	}, &cobra.Command{
		Use:   "delete [key]",
		Short: "Remove a credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := credential.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	})
	return root
}
