package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adarsh-naik-2004/bats-admin/internal/platform/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			fmt.Printf("batsctl %s (commit %s, built %s, %s)\n", info.Version, info.Commit, info.BuildTime, info.GoVersion)
			return nil
		},
	}
}
