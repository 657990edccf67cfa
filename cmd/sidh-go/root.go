package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/coinbase/sidh-go/pkg/sidh"
	"github.com/coinbase/sidh-go/pkg/sidh/circlsidh"
	"github.com/coinbase/sidh-go/pkg/sidh/diag"
	"github.com/coinbase/sidh-go/pkg/sidh/logging"
)

// app holds what the subcommands share once the root command has read its
// configuration.
type app struct {
	v    *viper.Viper
	log  zerolog.Logger
	diag *diag.Diagnostics
}

// execute runs the command line args. Diagnostics are closed on every path,
// including failed commands, so events queued before an error still reach
// the sink.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{v: viper.New()}
	defer func() { a.diag.Close() }()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:           "sidh-go",
		Short:         "SIDH key agreement toolkit",
		Long:          "Generate SIDH keys, derive shared secrets and exercise the engine end to end.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd, cfgFile)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	pf.StringP("set", "s", sidh.P434.String(), "parameter set name or id")
	pf.String("log-level", "info", "log level: trace, debug, info, warn, error")
	pf.String("log-format", "console", "log format: console or json")
	pf.String("diag-level", "none", "diagnostics level: none, error, warning, info, debug, verbose, epic")
	pf.String("diag-sink", "zerolog", "diagnostics sink: zerolog, logrus, jww or slog")
	pf.Bool("zeroize", true, "wipe intermediate secret buffers")

	a.bind(pf.Lookup("set"), "set")
	a.bind(pf.Lookup("log-level"), "log.level")
	a.bind(pf.Lookup("log-format"), "log.format")
	a.bind(pf.Lookup("diag-level"), "diag.level")
	a.bind(pf.Lookup("diag-sink"), "diag.sink")
	a.bind(pf.Lookup("zeroize"), "zeroize")

	a.v.SetEnvPrefix("SIDH")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(
		newLengthsCmd(a),
		newKeygenCmd(a),
		newAgreeCmd(a),
		newDemoCmd(a),
		newBenchCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) bind(flag *pflag.Flag, key string) {
	if err := a.v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind %s: %v", key, err))
	}
}

func (a *app) init(cmd *cobra.Command, cfgFile string) error {
	if cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	}

	logger, err := newLogger(cmd.ErrOrStderr(), a.v.GetString("log.level"), a.v.GetString("log.format"))
	if err != nil {
		return err
	}
	a.log = logger
	if cfgFile != "" {
		a.log.Debug().Str("file", a.v.ConfigFileUsed()).Msg("config loaded")
	}

	level, err := diag.ParseLevel(a.v.GetString("diag.level"))
	if err != nil {
		return err
	}
	if level == diag.LevelNone {
		return nil
	}
	sink, err := newSink(a.v.GetString("diag.sink"), cmd.ErrOrStderr(), a.log)
	if err != nil {
		return err
	}
	a.diag = diag.New(diag.Options{Level: level})
	a.diag.Register(sink)
	return nil
}

func newLogger(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("log level %q: %w", level, err)
	}
	switch format {
	case "console":
		w = zerolog.ConsoleWriter{Out: w, NoColor: true}
	case "json":
	default:
		return zerolog.Logger{}, fmt.Errorf("unknown log format %q", format)
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

func newSink(name string, w io.Writer, zl zerolog.Logger) (diag.Sink, error) {
	switch name {
	case "zerolog":
		return diag.ZerologSink(zl), nil
	case "logrus":
		l := logrus.New()
		l.SetOutput(w)
		l.SetLevel(logrus.TraceLevel)
		return diag.LogrusSink(l), nil
	case "jww":
		return diag.JWWSink(jww.NewNotepad(jww.LevelTrace, jww.LevelTrace, w, io.Discard, "sidh", 0)), nil
	case "slog":
		return diag.SlogSink(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug - 8}))), nil
	default:
		return nil, fmt.Errorf("unknown diagnostics sink %q", name)
	}
}

func (a *app) parameterSet() (sidh.ParameterSet, error) {
	return sidh.ParseParameterSet(a.v.GetString("set"))
}

// keyAgreement returns the backend selected by name.
func (a *app) keyAgreement(name string, obs sidh.Observer) (sidh.KeyAgreement, error) {
	logger := logging.NewZerolog(a.log)
	switch name {
	case "native", "":
		return sidh.New(sidh.Config{
			Diagnostics:       a.diag,
			Logger:            logger,
			Observer:          obs,
			EnableZeroization: a.v.GetBool("zeroize"),
		}), nil
	case "circl":
		return circlsidh.New(nil, logger), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}
