package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/miaoxn/soliditytool/internal/logger"
	"github.com/miaoxn/soliditytool/internal/logsink"
	"github.com/miaoxn/soliditytool/internal/schema"
	"github.com/miaoxn/soliditytool/internal/value"
)

var (
	ErrNoSigner  = errors.New("no signer connected: configure a private key or keystore to send transactions")
	ErrNoAddress = errors.New("no target address set")
	ErrNoChain   = errors.New("network client not ready")
)

// StateObserver sees every transition of every invocation.
type StateObserver func(fn schema.Function, state State)

// Outcome summarises one finished invocation.
type Outcome struct {
	Function     string
	State        State
	Result       any
	Handle       SubmissionHandle
	Confirmation *Confirmation
	Err          error
}

type Dispatcher struct {
	chain    Chain
	sink     logsink.Sink
	logger   logger.Logger
	observer StateObserver
}

type Option func(*Dispatcher)

func WithLogger(l logger.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

func WithStateObserver(o StateObserver) Option {
	return func(d *Dispatcher) { d.observer = o }
}

// New creates a dispatcher writing outcomes to sink. chain may be nil while
// no network client is connected; dispatches then fail without a call.
func New(chain Chain, sink logsink.Sink, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		chain:  chain,
		sink:   sink,
		logger: logger.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch runs one invocation of fn against address to a terminal state,
// then reports Idle to the observer. args must already conform to fn's
// input types. The dispatcher has no queue; callers guard against re-entry.
func (d *Dispatcher) Dispatch(ctx context.Context, address string, fn schema.Function, args []value.Node) *Outcome {
	outcome := d.dispatch(ctx, address, fn, args)
	if d.observer != nil {
		d.observer(fn, Idle)
	}
	return outcome
}

func (d *Dispatcher) dispatch(ctx context.Context, address string, fn schema.Function, args []value.Node) *Outcome {
	run := &invocation{d: d, fn: fn, outcome: &Outcome{Function: fn.Name, State: Idle}}

	run.transition(Preparing)
	switch {
	case d.chain == nil:
		return run.fail(ErrNoChain)
	case strings.TrimSpace(address) == "":
		return run.fail(ErrNoAddress)
	}
	address = strings.TrimSpace(address)

	prepared := Prepare(fn, args)
	d.sink.Append(logsink.Entry{
		Severity: logsink.Info,
		Message:  fmt.Sprintf("Calling %s...", fn.Name),
		Data:     value.Interfaces(prepared),
	})

	switch fn.Mutability {
	case schema.Pure, schema.View:
		return run.read(ctx, address, prepared)
	case schema.NonPayable, schema.Payable:
		return run.write(ctx, address, prepared)
	default:
		return run.fail(fmt.Errorf("unsupported state mutability %s", fn.Mutability))
	}
}

// Prepare trims surrounding whitespace from every textual leaf. Booleans
// and the tree structure are left as they are.
func Prepare(fn schema.Function, args []value.Node) []value.Node {
	out := make([]value.Node, len(args))
	for i, arg := range args {
		if i < len(fn.Inputs) {
			out[i] = trimLeaves(fn.Inputs[i].Type, arg)
		} else {
			out[i] = arg
		}
	}
	return out
}

func trimLeaves(t *schema.Type, v value.Node) value.Node {
	switch t.Kind() {
	case schema.KindArray:
		if !v.IsList() {
			return v
		}
		items := v.Items()
		for i := range items {
			items[i] = trimLeaves(t.Elem(), items[i])
		}
		return value.List(items...)
	case schema.KindTuple:
		if !v.IsList() {
			return v
		}
		items := v.Items()
		for i := range items {
			if i < t.NumComponents() {
				items[i] = trimLeaves(t.Component(i).Type, items[i])
			}
		}
		return value.List(items...)
	default:
		if !v.IsScalar() || t.IsBool() {
			return v
		}
		return value.Scalar(strings.TrimSpace(v.Text()))
	}
}

type invocation struct {
	d       *Dispatcher
	fn      schema.Function
	outcome *Outcome
}

func (r *invocation) transition(s State) {
	r.outcome.State = s
	r.d.logger.Debug("Dispatch state",
		zap.String("function", r.fn.Name),
		zap.String("state", s.String()),
	)
	if r.d.observer != nil {
		r.d.observer(r.fn, s)
	}
}

func (r *invocation) read(ctx context.Context, address string, args []value.Node) *Outcome {
	r.transition(ReadInFlight)
	result, err := r.d.chain.Query(ctx, address, r.fn, args)
	if err != nil {
		return r.fail(err)
	}

	rendered := Render(result)
	r.outcome.Result = rendered
	r.d.sink.Append(logsink.Entry{
		Severity: logsink.Success,
		Message:  fmt.Sprintf("Result (%s)", r.fn.Name),
		Data:     rendered,
	})
	return r.succeed()
}

func (r *invocation) write(ctx context.Context, address string, args []value.Node) *Outcome {
	if _, ok := r.d.chain.SignerAddress(); !ok {
		return r.fail(ErrNoSigner)
	}

	r.transition(WriteSubmitting)
	handle, err := r.d.chain.Submit(ctx, address, r.fn, args)
	if err != nil {
		return r.fail(err)
	}
	r.outcome.Handle = handle
	r.d.sink.Append(logsink.Entry{
		Severity: logsink.Info,
		Message:  "Transaction sent",
		Data:     map[string]any{"hash": string(handle)},
	})

	r.transition(WriteConfirming)
	confirmation, err := r.d.chain.AwaitConfirmation(ctx, handle)
	if err != nil {
		return r.fail(err)
	}
	r.outcome.Confirmation = confirmation

	severity := logsink.Success
	if confirmation.Status == StatusReverted {
		severity = logsink.Warning
	}
	r.d.sink.Append(logsink.Entry{
		Severity: severity,
		Message:  "Confirmed",
		Data: map[string]any{
			"status": string(confirmation.Status),
			"block":  confirmation.Block,
			"hash":   string(confirmation.Hash),
		},
	})
	return r.succeed()
}

func (r *invocation) succeed() *Outcome {
	r.transition(Succeeded)
	return r.outcome
}

func (r *invocation) fail(err error) *Outcome {
	r.outcome.Err = err
	r.d.sink.Append(logsink.Entry{
		Severity: logsink.Error,
		Message:  "Failed",
		Data:     ShortMessage(err),
	})
	r.transition(Failed)
	return r.outcome
}

type shortMessager interface {
	ShortMessage() string
}

// ShortMessage prefers a short form carried anywhere in err's chain.
func ShortMessage(err error) string {
	var sm shortMessager
	if errors.As(err, &sm) {
		if msg := sm.ShortMessage(); msg != "" {
			return msg
		}
	}
	return err.Error()
}
