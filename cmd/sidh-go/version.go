package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/coinbase/sidh-go/pkg/sidh"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of the sidh-go binary",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sidh-go %s (%s) %s\n", sidh.LibraryVersion(), sidh.Commit(), runtime.Version())
		},
	}
}
