package cli

import (
	"github.com/ghaniswara/algolove/internal"
	"github.com/spf13/cobra"
)

func newServeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the match API server",
		Long: `Run the match API server. Configuration is read from the environment
and .env, with <ENV>_ prefixed keys taking precedence.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return internal.Run(cmd.Context(), cmd.OutOrStdout(), opts.env)
		},
	}
}
