package cmd

import (
	"github.com/spf13/cobra"
)

func NewCmdCompletion() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "completion",
		Short: "Output shell completion code for the specified shell (bash, zsh or fish).",
	}

	bashCmd := &cobra.Command{
		Use: "bash",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Root().GenBashCompletionV2(cmd.OutOrStdout(), true)
		},
	}
	zshCmd := &cobra.Command{
		Use: "zsh",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
		},
	}
	fishCmd := &cobra.Command{
		Use: "fish",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
		},
	}
	rootCmd.AddCommand(bashCmd, zshCmd, fishCmd)
	return rootCmd
}
