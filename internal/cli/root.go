// Package cli is the command line of the site server.
package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// Version is set via ldflags at build time.
var Version = "dev"

// NewRoot builds the command tree. out receives command output.
func NewRoot(out io.Writer) *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "site",
		Short: "Serve the portfolio site",
		Long: `site serves the portfolio page together with its WebAssembly client and
static assets, and optionally relays contact form messages over SMTP.`,
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.SetErr(out)
	root.PersistentFlags().StringVar(&cfgFile, "config", "site.yaml", "config file path")

	root.AddCommand(
		newServeCmd(&cfgFile),
		newCheckCmd(&cfgFile),
		newVersionCmd(),
	)
	return root
}
