package workbench

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/miaoxn/soliditytool/internal/dispatcher"
	"github.com/miaoxn/soliditytool/internal/editor"
	"github.com/miaoxn/soliditytool/internal/schema"
	"github.com/miaoxn/soliditytool/internal/value"
)

// Panel holds the arguments and run state of one function. Panels of
// different functions run independently.
type Panel struct {
	wb *Workbench
	fn schema.Function

	mu      sync.RWMutex
	args    []value.Node
	last    *dispatcher.Outcome
	loading atomic.Bool
}

func newPanel(wb *Workbench, fn schema.Function) *Panel {
	return &Panel{
		wb:   wb,
		fn:   fn,
		args: editor.Defaults(fn.InputTypes()),
	}
}

func (p *Panel) Function() schema.Function { return p.fn }

// Loading reports whether a run is in progress.
func (p *Panel) Loading() bool { return p.loading.Load() }

// Args returns the current argument trees.
func (p *Panel) Args() []value.Node {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]value.Node(nil), p.args...)
}

// SetArgs replaces every argument. Trees that do not match their input type
// are normalized.
func (p *Panel) SetArgs(args []value.Node) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.args = editor.NormalizeAll(p.fn.InputTypes(), args)
}

// Editor returns an editor bound to argument i. Its edits replace that
// argument only.
func (p *Panel) Editor(i int) (*editor.Editor, error) {
	if i < 0 || i >= len(p.fn.Inputs) {
		return nil, fmt.Errorf("%w: %s has no argument %d", editor.ErrInvalidPath, p.fn.Name, i)
	}
	p.mu.RLock()
	current := p.args[i]
	p.mu.RUnlock()

	in := p.fn.Inputs[i]
	return editor.New(in.Label(i), in.Type, current, func(v value.Node) {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.args[i] = v
	}), nil
}

// LastOutcome is the result of the most recent finished run, if any.
func (p *Panel) LastOutcome() *dispatcher.Outcome {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}

// Run dispatches the function with a snapshot of the current arguments.
// It refuses to start while a previous run of this panel is in progress.
func (p *Panel) Run(ctx context.Context) (*dispatcher.Outcome, error) {
	if !p.loading.CompareAndSwap(false, true) {
		return nil, ErrDispatchInFlight
	}
	defer p.loading.Store(false)

	args := p.Args()
	started := p.wb.now()
	outcome := p.wb.dispatcher.Dispatch(ctx, p.wb.Address(), p.fn, args)

	p.mu.Lock()
	p.last = outcome
	p.mu.Unlock()

	p.wb.observeRun(outcome, started)
	return outcome, nil
}
