package sidh

import (
	"context"
	"crypto/rand"
	"io"
	"time"

	"github.com/coinbase/sidh-go/pkg/sidh/diag"
	"github.com/coinbase/sidh-go/pkg/sidh/logging"
)

// Config carries the collaborators an Engine is built with. Every field is
// optional.
type Config struct {
	// Rand is the entropy source for private scalars. Leaving it nil selects
	// crypto/rand.Reader. A failing reader is reported as
	// ErrEntropyUnavailable; there is no fallback.
	Rand io.Reader

	// Diagnostics receives severity-levelled operator events. A nil value
	// disables them. Emission never blocks and never changes an outcome.
	Diagnostics *diag.Diagnostics

	// Logger receives structured operation logs. Leaving it nil binds to
	// slog.Default(). Key material is never logged.
	Logger logging.Logger

	// Observer is notified once per operation with its duration and result.
	Observer Observer

	// EnableZeroization wipes rejected scalar candidates and other
	// intermediate secret buffers before they are released.
	EnableZeroization bool
}

// Operation names a key-agreement step for observers.
type Operation string

const (
	OpSample   Operation = "sample"
	OpGenerate Operation = "generate"
	OpAgree    Operation = "agree"
)

// Observer receives one callback per completed operation. Implementations
// must be safe for concurrent use.
type Observer interface {
	Observe(op Operation, set ParameterSet, role Role, elapsed time.Duration, err error)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(op Operation, set ParameterSet, role Role, elapsed time.Duration, err error)

func (f ObserverFunc) Observe(op Operation, set ParameterSet, role Role, elapsed time.Duration, err error) {
	f(op, set, role, elapsed, err)
}

// KeyAgreement is the role-generic SIDH contract. Engine implements it; the
// circlsidh package provides an alternative backend for a subset of sets.
type KeyAgreement interface {
	Lengths(set ParameterSet) (FieldLengths, error)
	SampleScalar(ctx context.Context, set ParameterSet, role Role) ([]byte, error)
	GeneratePublicKey(ctx context.Context, set ParameterSet, role Role, priv []byte) ([]byte, error)
	Agree(ctx context.Context, set ParameterSet, role Role, priv, peerPub []byte) ([]byte, error)
}

// Engine performs SIDH key agreement. It keeps no state between calls
// besides its collaborators and is safe for unlimited concurrent use.
//
// The context arguments carry request-scoped values to the logger only;
// operations run to completion once started.
type Engine struct {
	rand    io.Reader
	diag    *diag.Diagnostics
	log     logging.Logger
	obs     Observer
	zeroize bool
}

var _ KeyAgreement = (*Engine)(nil)

// New returns an Engine wired to the collaborators in cfg.
func New(cfg Config) *Engine {
	e := &Engine{
		rand:    cfg.Rand,
		diag:    cfg.Diagnostics,
		log:     cfg.Logger,
		obs:     cfg.Observer,
		zeroize: cfg.EnableZeroization,
	}
	if e.rand == nil {
		e.rand = rand.Reader
	}
	if e.log == nil {
		e.log = logging.New(nil)
	}
	return e
}

// Lengths returns LengthsFor(set).
func (e *Engine) Lengths(set ParameterSet) (FieldLengths, error) {
	return LengthsFor(set)
}

// SampleScalarA draws a private key for RoleA.
func (e *Engine) SampleScalarA(ctx context.Context, set ParameterSet) ([]byte, error) {
	return e.SampleScalar(ctx, set, RoleA)
}

// SampleScalarB draws a private key for RoleB.
func (e *Engine) SampleScalarB(ctx context.Context, set ParameterSet) ([]byte, error) {
	return e.SampleScalar(ctx, set, RoleB)
}

// GenerateA derives RoleA's public key.
func (e *Engine) GenerateA(ctx context.Context, set ParameterSet, privA []byte) ([]byte, error) {
	return e.GeneratePublicKey(ctx, set, RoleA, privA)
}

// GenerateB derives RoleB's public key.
func (e *Engine) GenerateB(ctx context.Context, set ParameterSet, privB []byte) ([]byte, error) {
	return e.GeneratePublicKey(ctx, set, RoleB, privB)
}

// AgreeA derives RoleA's shared secret from B's public key.
func (e *Engine) AgreeA(ctx context.Context, set ParameterSet, privA, pubB []byte) ([]byte, error) {
	return e.Agree(ctx, set, RoleA, privA, pubB)
}

// AgreeB derives RoleB's shared secret from A's public key.
func (e *Engine) AgreeB(ctx context.Context, set ParameterSet, privB, pubA []byte) ([]byte, error) {
	return e.Agree(ctx, set, RoleB, privB, pubA)
}

func (e *Engine) finish(ctx context.Context, op Operation, set ParameterSet, role Role, start time.Time, err error) {
	elapsed := time.Since(start)
	if e.obs != nil {
		e.obs.Observe(op, set, role, elapsed, err)
	}
	if err != nil {
		e.log.Warn(ctx, "sidh operation failed", logging.Op(string(op)), logging.Set(set), logging.Role(role), logging.Err(err))
		e.diag.Emitf(diag.LevelError, "%s %v/%v failed: %v", op, set, role, err)
		return
	}
	e.log.Debug(ctx, "sidh operation done", logging.Op(string(op)), logging.Set(set), logging.Role(role), logging.Elapsed(elapsed))
	e.diag.Emitf(diag.LevelDebug, "%s %v/%v done in %v", op, set, role, elapsed)
}

func (e *Engine) wipe(buf []byte) {
	if e.zeroize {
		ZeroizeBytes(buf)
	}
}
