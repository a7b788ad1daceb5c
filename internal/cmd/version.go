package cmd

import (
	"github.com/spf13/cobra"

	"github.com/perfworkshop/workshop/cmd/state"
	"github.com/perfworkshop/workshop/lib/consts"
)

func getCmdVersion(gs *state.GlobalState) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show application version",
		Long:  "Show the application version and exit.",
		Run: func(_ *cobra.Command, _ []string) {
			gs.Console.Printf("%s v%s\n", gs.BinaryName, consts.FullVersion())
		},
	}
}
