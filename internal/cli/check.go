package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load and validate the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgFile)
			if err != nil {
				return err
			}

			relay := cfg.RelayURL
			if relay == "" {
				relay = "(client default)"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "port:     %s\n", cfg.Port)
			fmt.Fprintf(out, "gin mode: %s\n", cfg.GinMode)
			fmt.Fprintf(out, "owner:    %s\n", cfg.OwnerName)
			fmt.Fprintf(out, "relay:    %s\n", relay)
			fmt.Fprintf(out, "smtp:     %v\n", cfg.SMTP.Configured())
			fmt.Fprintln(out, "config ok")
			return nil
		},
	}
}
