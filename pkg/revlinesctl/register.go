package revlinesctl

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/ustclug/revlines/pkg/info"
	"github.com/ustclug/revlines/pkg/revlinesctl/cmd"
	"github.com/ustclug/revlines/pkg/revlinesctl/cmd/remote"
	"github.com/ustclug/revlines/pkg/revlinesctl/factory"
)

func Register(root *cobra.Command, f factory.Factory) {
	root.AddCommand(
		cmd.NewCmdCompletion(),
		cmd.NewCmdServe(),
		cmd.NewCmdTail(),
		remote.NewCmdRemote(f),
	)
}

// NewCmdRoot returns the revlines command. Without a subcommand it prints
// its file arguments, or stdin, last line first.
func NewCmdRoot() *cobra.Command {
	var printVersion bool
	o := cmd.ReverseOptions{}
	rootCmd := &cobra.Command{
		Use:          "revlines [FILE]...",
		Short:        "Print files line by line, last line first",
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
	}
	f := factory.New(rootCmd.PersistentFlags())
	rootCmd.RunE = func(c *cobra.Command, args []string) error {
		if printVersion {
			return json.NewEncoder(c.OutOrStdout()).Encode(info.Get())
		}
		return o.Run(c, f, args)
	}
	flags := rootCmd.Flags()
	flags.BoolVarP(&printVersion, "version", "V", false, "Print version information and quit")
	o.AddFlags(flags)
	Register(rootCmd, f)
	return rootCmd
}
