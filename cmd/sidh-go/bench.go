package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/coinbase/sidh-go/pkg/sidh"
	"github.com/coinbase/sidh-go/pkg/sidh/exchange"
	"github.com/coinbase/sidh-go/pkg/sidh/metrics"
	"github.com/coinbase/sidh-go/pkg/sidh/mocknet"
)

const shutdownTimeout = 5 * time.Second

func newBenchCmd(a *app) *cobra.Command {
	var (
		backend    string
		sets       string
		iterations int
		hold       bool
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time complete exchanges for one or more parameter sets",
		Long: `Time complete exchanges (sample, generate and agree for both roles).

With --metrics-addr the engine's Prometheus metrics are served on /metrics
while the benchmark runs; --hold keeps serving until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if iterations < 1 {
				return fmt.Errorf("iterations must be positive, got %d", iterations)
			}
			if sets == "" {
				sets = a.v.GetString("set")
			}
			selected, err := parseSets(sets)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			obs, err := metrics.New(reg)
			if err != nil {
				return err
			}
			ka, err := a.keyAgreement(backend, obs)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if addr := a.v.GetString("metrics.addr"); addr != "" {
				stop, err := a.serveMetrics(cmd, addr, reg)
				if err != nil {
					return err
				}
				defer stop()
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SET\tITERATIONS\tTOTAL\tPER EXCHANGE")
			for _, set := range selected {
				start := time.Now()
				for i := 0; i < iterations; i++ {
					epA, epB := mocknet.New().Pair()
					if _, _, err := exchange.RunPair(ctx, ka, epA, epB, set); err != nil {
						return fmt.Errorf("%v iteration %d: %w", set, i, err)
					}
				}
				total := time.Since(start)
				fmt.Fprintf(tw, "%s\t%d\t%v\t%v\n", set, iterations, total.Round(time.Millisecond), (total / time.Duration(iterations)).Round(time.Microsecond))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if hold && a.v.GetString("metrics.addr") != "" {
				a.log.Info().Msg("benchmark done, serving metrics until interrupted")
				<-ctx.Done()
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&backend, "backend", "b", "native", "key agreement backend: native or circl")
	f.StringVar(&sets, "sets", "", "comma separated parameter sets; empty means the --set value")
	f.IntVarP(&iterations, "iterations", "n", 10, "exchanges per parameter set")
	f.BoolVar(&hold, "hold", false, "keep serving metrics after the benchmark")
	f.String("metrics-addr", "", "serve Prometheus metrics on this address")
	a.bind(f.Lookup("metrics-addr"), "metrics.addr")
	return cmd
}

func parseSets(list string) ([]sidh.ParameterSet, error) {
	if list == "all" {
		return sidh.ParameterSets(), nil
	}
	var out []sidh.ParameterSet
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		set, err := sidh.ParseParameterSet(name)
		if err != nil {
			return nil, err
		}
		out = append(out, set)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no parameter sets selected")
	}
	return out, nil
}

func (a *app) serveMetrics(cmd *cobra.Command, addr string, reg *prometheus.Registry) (func(), error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	server := &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error().Err(err).Msg("metrics server quit with error")
		}
	}()
	a.log.Info().Str("addr", l.Addr().String()).Msg("starting metrics server")
	fmt.Fprintf(cmd.OutOrStdout(), "metrics listening on %s\n", l.Addr())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(ctx)
		<-done
	}, nil
}
