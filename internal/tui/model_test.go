package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miaoxn/soliditytool/internal/dispatcher"
	"github.com/miaoxn/soliditytool/internal/editor"
	"github.com/miaoxn/soliditytool/internal/logsink"
	"github.com/miaoxn/soliditytool/internal/schema"
	"github.com/miaoxn/soliditytool/internal/storage/memory"
	"github.com/miaoxn/soliditytool/internal/value"
	"github.com/miaoxn/soliditytool/internal/workbench"
)

const (
	testAddress = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
	testABI     = `[
		{"type":"function","name":"balanceOf","stateMutability":"view",
		 "inputs":[{"name":"owner","type":"address"}],"outputs":[{"type":"uint256"}]},
		{"type":"function","name":"configure","stateMutability":"nonpayable",
		 "inputs":[{"name":"enabled","type":"bool"},{"name":"amounts","type":"uint256[]"}],"outputs":[]}
	]`
)

type stubChain struct{}

func (stubChain) Query(ctx context.Context, address string, fn schema.Function, args []value.Node) (any, error) {
	return "42", nil
}

func (stubChain) Submit(ctx context.Context, address string, fn schema.Function, args []value.Node) (dispatcher.SubmissionHandle, error) {
	return "0xabc", nil
}

func (stubChain) AwaitConfirmation(ctx context.Context, handle dispatcher.SubmissionHandle) (*dispatcher.Confirmation, error) {
	return &dispatcher.Confirmation{Status: dispatcher.StatusSuccess, Block: "1", Hash: handle}, nil
}

func (stubChain) SignerAddress() (string, bool) { return testAddress, true }
func (stubChain) ChainID() string               { return "31337" }

func newTestModel(t *testing.T) (model, *workbench.Workbench) {
	t.Helper()
	store := memory.NewInMemoryContractStore()
	wb := workbench.New(stubChain{}, store, logsink.NewMemorySink())
	require.NoError(t, wb.SetABI(testABI))
	m := newModel(context.Background(), wb, store, lookupTheme("dark"))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(model), wb
}

func press(t *testing.T, m model, keys ...string) (model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(model)
	}
	return m, cmd
}

// drain runs a command and feeds its messages back into the model.
func drain(t *testing.T, m model, cmd tea.Cmd) model {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c != nil {
				m = drain(t, m, c)
			}
		}
		return m
	}
	next, _ := m.Update(msg)
	return next.(model)
}

func TestModel_TabsSplitFunctions(t *testing.T) {
	m, _ := newTestModel(t)

	fn, ok := m.selectedFunction()
	require.True(t, ok)
	assert.Equal(t, "balanceOf", fn.Name)

	m, _ = press(t, m, "tab")
	fn, ok = m.selectedFunction()
	require.True(t, ok)
	assert.Equal(t, "configure", fn.Name)
	assert.Contains(t, m.View(), "Write (1)")
}

func TestModel_EditArguments(t *testing.T) {
	m, wb := newTestModel(t)
	m, _ = press(t, m, "tab", "enter")
	require.Equal(t, paneArgs, m.focus)

	// enabled
	m, _ = press(t, m, "enter")
	// amounts: add two elements, then remove the first
	m, _ = press(t, m, "down", "a", "a")
	rows := m.rows()
	require.Len(t, rows, 4)
	assert.Equal(t, editor.LineNumeric, rows[2].line.Kind)

	m, _ = press(t, m, "down", "enter")
	require.Equal(t, inputValue, m.mode)
	m.input.SetValue("1.5")
	m, _ = press(t, m, "enter")
	assert.Equal(t, inputNone, m.mode)
	m, _ = press(t, m, "w")

	p, err := wb.Panel("configure")
	require.NoError(t, err)
	args := p.Args()
	assert.Equal(t, "true", args[0].Text())
	require.Equal(t, 2, args[1].Len())
	assert.Equal(t, "1500000000000000000", args[1].At(0).Text())

	// conversion of non-numeric text is a silent no-op
	m, _ = press(t, m, "down", "enter")
	m.input.SetValue("abc")
	m, _ = press(t, m, "enter", "w")
	assert.Equal(t, "abc", p.Args()[1].At(1).Text())
	assert.False(t, m.statusErr)

	m, _ = press(t, m, "up", "x")
	args = p.Args()
	require.Equal(t, 1, args[1].Len())
	assert.Equal(t, "abc", args[1].At(0).Text())
	assert.False(t, m.statusErr)
}

func TestModel_RemoveOnNonElementReportsError(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, "enter", "x")
	assert.True(t, m.statusErr)
}

func TestModel_ConvertOnNonNumericReportsError(t *testing.T) {
	m, wb := newTestModel(t)
	m, _ = press(t, m, "tab", "enter", "w")
	assert.True(t, m.statusErr)
	assert.Equal(t, editor.ErrNotNumeric.Error(), m.status)

	p, err := wb.Panel("configure")
	require.NoError(t, err)
	assert.Equal(t, "false", p.Args()[0].Text())

	// the status clears on the next successful edit
	m, _ = press(t, m, "enter")
	assert.False(t, m.statusErr)
	assert.Equal(t, "true", p.Args()[0].Text())
}

func TestModel_EscapeCancelsInput(t *testing.T) {
	m, wb := newTestModel(t)
	m, _ = press(t, m, "enter", "enter")
	require.Equal(t, inputValue, m.mode)
	m.input.SetValue(testAddress)
	m, _ = press(t, m, "esc")
	assert.Equal(t, inputNone, m.mode)

	p, err := wb.Panel("balanceOf")
	require.NoError(t, err)
	assert.Equal(t, "", p.Args()[0].Text())
}

func TestModel_RunLogsOutcome(t *testing.T) {
	m, wb := newTestModel(t)
	wb.SetAddress(testAddress)

	m, cmd := press(t, m, "r")
	m = drain(t, m, cmd)
	assert.Equal(t, "balanceOf succeeded", m.status)
	assert.NotZero(t, wb.Sink().(*logsink.MemorySink).Len())

	m, _ = press(t, m, "c")
	assert.Zero(t, wb.Sink().(*logsink.MemorySink).Len())
	assert.Contains(t, m.logs.View(), "No log entries")
}

func TestModel_StateMessagesDriveSpinner(t *testing.T) {
	m, wb := newTestModel(t)
	fn := wb.ReadFunctions()[0]

	next, _ := m.Update(stateMsg{signature: fn.Signature(), state: dispatcher.ReadInFlight})
	m = next.(model)
	assert.True(t, m.running(fn))

	next, _ = m.Update(stateMsg{signature: fn.Signature(), state: dispatcher.Idle})
	m = next.(model)
	assert.False(t, m.running(fn))
}

func TestModel_SaveRequiresAddress(t *testing.T) {
	m, _ := newTestModel(t)
	m, cmd := press(t, m, "s")
	m = drain(t, m, cmd)
	assert.True(t, m.statusErr)
	assert.Equal(t, "address and ABI required", m.status)
}

func TestModel_SaveNoteAndReload(t *testing.T) {
	m, wb := newTestModel(t)
	wb.SetAddress(testAddress)

	m, cmd := press(t, m, "s")
	m = drain(t, m, cmd)
	require.False(t, m.statusErr)
	require.NotEmpty(t, wb.ActiveID())

	m, _ = press(t, m, "n")
	require.Equal(t, inputNote, m.mode)
	m.input.SetValue("returns wei")
	m, cmd = press(t, m, "enter")
	m = drain(t, m, cmd)
	assert.Equal(t, "returns wei", wb.Note("balanceOf"))
	assert.Contains(t, m.View(), "✎")

	m, cmd = press(t, m, "o")
	m = drain(t, m, cmd)
	require.Equal(t, paneContracts, m.focus)
	require.Len(t, m.contracts, 1)
	assert.Equal(t, "returns wei", m.contracts[0].Notes["balanceOf"])

	m, cmd = press(t, m, "enter")
	m = drain(t, m, cmd)
	assert.Equal(t, paneFunctions, m.focus)
	assert.Equal(t, testAddress, wb.Address())
}

func TestModel_SetABIFromInput(t *testing.T) {
	m, wb := newTestModel(t)

	m, _ = press(t, m, "B")
	m.input.SetValue("not json")
	m, _ = press(t, m, "enter")
	assert.True(t, m.statusErr)
	assert.Len(t, wb.Functions(), 2)

	m, _ = press(t, m, "B")
	m.input.SetValue(`[{"type":"function","name":"ping","stateMutability":"pure","inputs":[],"outputs":[]}]`)
	m, _ = press(t, m, "enter")
	assert.False(t, m.statusErr)
	assert.Len(t, wb.Functions(), 1)
}

func TestModel_ThemeCycles(t *testing.T) {
	m, _ := newTestModel(t)
	seen := map[string]bool{m.theme.Name: true}
	for range ThemeNames() {
		m, _ = press(t, m, "t")
		seen[m.theme.Name] = true
	}
	assert.Len(t, seen, len(Themes))
	assert.Equal(t, "dark", lookupTheme("unknown").Name)
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
