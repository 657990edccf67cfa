package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/coinbase/sidh-go/pkg/sidh"
)

func newLengthsCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lengths",
		Short: "Print key and secret lengths for every parameter set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SET\tID\tPRIVATE A\tPRIVATE B\tPUBLIC KEY\tSHARED SECRET")
			for _, set := range sidh.ParameterSets() {
				l, err := sidh.LengthsFor(set)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\n", set, int(set), l.PrivateKeyA, l.PrivateKeyB, l.PublicKey, l.SharedSecret)
			}
			return tw.Flush()
		},
	}
}
