package main

import (
	"crypto/subtle"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coinbase/sidh-go/pkg/sidh/exchange"
	"github.com/coinbase/sidh-go/pkg/sidh/mocknet"
)

func newDemoCmd(a *app) *cobra.Command {
	var backend string
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run both roles of an exchange over an in-memory network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := a.parameterSet()
			if err != nil {
				return err
			}
			ka, err := a.keyAgreement(backend, nil)
			if err != nil {
				return err
			}

			epA, epB := mocknet.New().Pair()
			resA, resB, err := exchange.RunPair(cmd.Context(), ka, epA, epB, set)
			if err != nil {
				return err
			}
			match := subtle.ConstantTimeCompare(resA.SharedSecret, resB.SharedSecret) == 1

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "set:            %s\n", set)
			fmt.Fprintf(out, "backend:        %s\n", backend)
			fmt.Fprintf(out, "public key A:   %d bytes\n", len(resA.PublicKey))
			fmt.Fprintf(out, "public key B:   %d bytes\n", len(resB.PublicKey))
			fmt.Fprintf(out, "shared secret:  %d bytes\n", len(resA.SharedSecret))
			fmt.Fprintf(out, "secrets match:  %t\n", match)
			if !match {
				return fmt.Errorf("shared secrets differ")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&backend, "backend", "b", "native", "key agreement backend: native or circl")
	return cmd
}
