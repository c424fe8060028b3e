package tui

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/miaoxn/soliditytool/internal/dispatcher"
	"github.com/miaoxn/soliditytool/internal/schema"
	"github.com/miaoxn/soliditytool/internal/storage"
	"github.com/miaoxn/soliditytool/internal/workbench"
)

type Options struct {
	Theme string
	// Store backs the saved-contracts pane. It may be nil.
	Store storage.ContractStore
	// ProgramOptions are passed to tea.NewProgram, mostly for tests.
	ProgramOptions []tea.ProgramOption
}

// Program hosts the interactive debugger. Create it before the workbench so
// ObserveState can be installed as the workbench's state observer.
type Program struct {
	opts Options

	mu   sync.Mutex
	prog *tea.Program
}

func New(opts Options) *Program {
	return &Program{opts: opts}
}

// ObserveState forwards dispatcher transitions into the running program.
// Transitions before Run or after it returns are dropped.
func (p *Program) ObserveState(fn schema.Function, s dispatcher.State) {
	p.mu.Lock()
	prog := p.prog
	p.mu.Unlock()
	if prog == nil {
		return
	}
	// runs execute in command goroutines, never on the event loop
	prog.Send(stateMsg{signature: fn.Signature(), state: s})
}

// Run blocks until the user quits or ctx is cancelled.
func (p *Program) Run(ctx context.Context, wb *workbench.Workbench) error {
	if wb == nil {
		return errors.New("tui: nil workbench")
	}
	m := newModel(ctx, wb, p.opts.Store, lookupTheme(p.opts.Theme))

	opts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, p.opts.ProgramOptions...)
	prog := tea.NewProgram(m, opts...)

	p.mu.Lock()
	p.prog = prog
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.prog = nil
		p.mu.Unlock()
	}()

	_, err := prog.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
