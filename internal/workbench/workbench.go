// Package workbench holds the state of one debugging session: the target
// contract, its parsed functions, per-function argument panels, notes, the
// active saved record and the execution log.
package workbench

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/miaoxn/soliditytool/internal/dispatcher"
	"github.com/miaoxn/soliditytool/internal/logger"
	"github.com/miaoxn/soliditytool/internal/logsink"
	"github.com/miaoxn/soliditytool/internal/schema"
	"github.com/miaoxn/soliditytool/internal/storage"
)

const (
	DefaultName  = "My Contract"
	UntitledName = "Untitled"
)

var (
	ErrIncomplete       = errors.New("address and ABI required")
	ErrNoStore          = errors.New("no contract store configured")
	ErrUnknownFunction  = errors.New("unknown function")
	ErrDispatchInFlight = errors.New("a call for this function is already running")
)

// OutcomeHook is told about every finished run.
type OutcomeHook func(outcome *dispatcher.Outcome, elapsed time.Duration)

type Workbench struct {
	mu        sync.RWMutex
	name      string
	address   string
	abiText   string
	functions []schema.Function
	panels    map[string]*Panel
	notes     map[string]string
	activeID  string

	chain      dispatcher.Chain
	store      storage.ContractStore
	sink       logsink.Sink
	dispatcher *dispatcher.Dispatcher
	logger     logger.Logger
	observer   dispatcher.StateObserver
	hook       OutcomeHook
	now        func() time.Time
	newID      func() string
}

type Option func(*Workbench)

func WithLogger(l logger.Logger) Option {
	return func(w *Workbench) { w.logger = l }
}

func WithStateObserver(o dispatcher.StateObserver) Option {
	return func(w *Workbench) { w.observer = o }
}

func WithOutcomeHook(h OutcomeHook) Option {
	return func(w *Workbench) { w.hook = h }
}

func WithClock(now func() time.Time) Option {
	return func(w *Workbench) { w.now = now }
}

// New creates an empty workbench. chain and store may be nil: without a
// chain every run fails with a log entry, without a store saving fails.
func New(chain dispatcher.Chain, store storage.ContractStore, sink logsink.Sink, opts ...Option) *Workbench {
	w := &Workbench{
		name:   DefaultName,
		panels: make(map[string]*Panel),
		notes:  make(map[string]string),
		chain:  chain,
		store:  store,
		sink:   sink,
		logger: logger.NewNopLogger(),
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(w)
	}

	dopts := []dispatcher.Option{dispatcher.WithLogger(w.logger)}
	if w.observer != nil {
		dopts = append(dopts, dispatcher.WithStateObserver(w.observer))
	}
	w.dispatcher = dispatcher.New(chain, sink, dopts...)
	return w
}

func (w *Workbench) Sink() logsink.Sink { return w.sink }

func (w *Workbench) Name() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.name
}

func (w *Workbench) SetName(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.name = name
}

func (w *Workbench) Address() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.address
}

// SetAddress changes the target and detaches the active saved record.
func (w *Workbench) SetAddress(address string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.address = strings.TrimSpace(address)
	w.activeID = ""
}

func (w *Workbench) ABI() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.abiText
}

// SetABI replaces the interface text and detaches the active saved record.
// When the text does not parse the previous function list stays in place
// and the parse error is returned.
func (w *Workbench) SetABI(text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.abiText = text
	w.activeID = ""
	return w.reparse()
}

// Revise replaces address and interface text together while keeping the
// active saved record, so the next Save updates it in place.
func (w *Workbench) Revise(address, abiText string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.address = strings.TrimSpace(address)
	w.abiText = abiText
	return w.reparse()
}

// reparse rebuilds the function list. Panels of functions whose signature
// survived keep their arguments. Callers hold w.mu.
func (w *Workbench) reparse() error {
	if strings.TrimSpace(w.abiText) == "" {
		w.functions = nil
		w.panels = make(map[string]*Panel)
		return nil
	}

	fns, skipped, err := schema.ParseItems(w.abiText)
	if err != nil {
		return fmt.Errorf("failed to parse ABI: %w", err)
	}
	for _, e := range skipped {
		w.logger.Debug("Skipped ABI item", zap.Error(e))
	}

	panels := make(map[string]*Panel, len(fns))
	for _, fn := range fns {
		key := fn.Signature()
		if p, ok := w.panels[key]; ok {
			panels[key] = p
			continue
		}
		panels[key] = newPanel(w, fn)
	}
	w.functions = fns
	w.panels = panels
	return nil
}

// Functions returns every parsed function in declaration order.
func (w *Workbench) Functions() []schema.Function {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]schema.Function(nil), w.functions...)
}

// ReadFunctions returns the pure and view functions.
func (w *Workbench) ReadFunctions() []schema.Function {
	return w.filter(func(fn schema.Function) bool { return fn.Mutability.IsRead() })
}

// WriteFunctions returns the nonpayable and payable functions.
func (w *Workbench) WriteFunctions() []schema.Function {
	return w.filter(func(fn schema.Function) bool { return !fn.Mutability.IsRead() })
}

func (w *Workbench) filter(keep func(schema.Function) bool) []schema.Function {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]schema.Function, 0, len(w.functions))
	for _, fn := range w.functions {
		if keep(fn) {
			out = append(out, fn)
		}
	}
	return out
}

// Panel returns the panel of the function with the given signature, or of
// the first function with the given name.
func (w *Workbench) Panel(key string) (*Panel, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if p, ok := w.panels[key]; ok {
		return p, nil
	}
	for _, fn := range w.functions {
		if fn.Name == key {
			return w.panels[fn.Signature()], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, key)
}

// Note returns the note of a function, keyed by function name.
func (w *Workbench) Note(fn string) string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.notes[fn]
}

func (w *Workbench) Notes() map[string]string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return copyNotes(w.notes)
}

// ActiveID is the id of the saved record being edited, if any.
func (w *Workbench) ActiveID() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.activeID
}

// ClearLogs empties the execution log.
func (w *Workbench) ClearLogs() {
	w.sink.Clear()
}

func (w *Workbench) log(severity logsink.Severity, msg string) {
	w.sink.Append(logsink.Entry{Severity: severity, Message: msg})
}

func copyNotes(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (w *Workbench) observeRun(outcome *dispatcher.Outcome, started time.Time) {
	elapsed := w.now().Sub(started)
	w.logger.Debug("Run finished",
		zap.String("function", outcome.Function),
		zap.String("state", outcome.State.String()),
		zap.Duration("elapsed", elapsed),
	)
	if w.hook != nil {
		w.hook(outcome, elapsed)
	}
}
