package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/miaoxn/soliditytool/internal/dispatcher"
	"github.com/miaoxn/soliditytool/internal/editor"
	"github.com/miaoxn/soliditytool/internal/logsink"
	"github.com/miaoxn/soliditytool/internal/schema"
	"github.com/miaoxn/soliditytool/internal/storage"
	"github.com/miaoxn/soliditytool/internal/workbench"
)

type tabID int

const (
	tabRead tabID = iota
	tabWrite
)

type paneID int

const (
	paneFunctions paneID = iota
	paneArgs
	paneContracts
)

type inputMode int

const (
	inputNone inputMode = iota
	inputValue
	inputNote
	inputAddress
	inputName
	inputABI
)

type stateMsg struct {
	signature string
	state     dispatcher.State
}

type runDoneMsg struct {
	signature string
	outcome   *dispatcher.Outcome
	err       error
}

type savedMsg struct {
	record *storage.SavedContract
	err    error
}

type contractsMsg struct {
	contracts []*storage.SavedContract
	err       error
}

type loadedMsg struct {
	record *storage.SavedContract
	err    error
}

type deletedMsg struct {
	id  string
	err error
}

type noteSavedMsg struct {
	fn  string
	err error
}

// argRow is one editor line of one argument of the selected function.
type argRow struct {
	arg  int
	line editor.Line
}

type model struct {
	ctx   context.Context
	wb    *workbench.Workbench
	store storage.ContractStore
	theme Theme

	tab            tabID
	focus          paneID
	fnCursor       int
	rowCursor      int
	contractCursor int
	contracts      []*storage.SavedContract

	mode    inputMode
	input   textinput.Model
	editing argRow

	spinner spinner.Model
	logs    viewport.Model
	states  map[string]dispatcher.State

	status    string
	statusErr bool

	width  int
	height int
}

func newModel(ctx context.Context, wb *workbench.Workbench, store storage.ContractStore, theme Theme) model {
	input := textinput.New()
	input.Prompt = "❯ "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.spinner

	return model{
		ctx:     ctx,
		wb:      wb,
		store:   store,
		theme:   theme,
		input:   input,
		spinner: sp,
		logs:    viewport.New(0, 0),
		states:  make(map[string]dispatcher.State),
		status:  "ready",
	}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case stateMsg:
		if msg.state == dispatcher.Idle {
			delete(m.states, msg.signature)
		} else {
			m.states[msg.signature] = msg.state
		}

	case runDoneMsg:
		switch {
		case msg.err != nil:
			m.setError(msg.err)
		case msg.outcome != nil:
			m.setStatus(fmt.Sprintf("%s %s", msg.outcome.Function, msg.outcome.State))
			m.statusErr = msg.outcome.State == dispatcher.Failed
		}

	case savedMsg:
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			m.setStatus(fmt.Sprintf("saved %s", msg.record.Name))
		}

	case contractsMsg:
		if msg.err != nil {
			m.setError(msg.err)
			break
		}
		m.contracts = msg.contracts
		m.contractCursor = clamp(m.contractCursor, 0, len(m.contracts)-1)
		m.focus = paneContracts

	case loadedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			break
		}
		m.fnCursor, m.rowCursor = 0, 0
		m.focus = paneFunctions
		m.setStatus(fmt.Sprintf("loaded %s", msg.record.Name))

	case deletedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			break
		}
		m.setStatus("deleted " + msg.id)
		cmds = append(cmds, m.listContractsCmd())

	case noteSavedMsg:
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			m.setStatus("note updated for " + msg.fn)
		}

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.mode != inputNone {
			cmds = append(cmds, m.handleInput(msg))
		} else {
			cmd, quit := m.handleKey(msg)
			if quit {
				return m, tea.Quit
			}
			cmds = append(cmds, cmd)
		}
	}

	m.refreshLogs()
	return m, tea.Batch(cmds...)
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "q":
		return nil, true
	case "tab", "shift+tab":
		if m.tab == tabRead {
			m.tab = tabWrite
		} else {
			m.tab = tabRead
		}
		m.fnCursor, m.rowCursor = 0, 0
		m.focus = paneFunctions
		return nil, false
	case "t":
		m.theme = nextTheme(m.theme.Name)
		m.spinner.Style = m.theme.spinner
		m.setStatus("theme " + m.theme.Name)
		return nil, false
	case "c":
		m.wb.ClearLogs()
		m.setStatus("logs cleared")
		return nil, false
	case "s":
		return m.saveCmd(), false
	case "o":
		return m.listContractsCmd(), false
	case "A":
		return m.beginInput(inputAddress, "address", m.wb.Address()), false
	case "N":
		return m.beginInput(inputName, "name", m.wb.Name()), false
	case "B":
		return m.beginInput(inputABI, "abi json", m.wb.ABI()), false
	case "pgup":
		m.logs.LineUp(4)
		return nil, false
	case "pgdown":
		m.logs.LineDown(4)
		return nil, false
	}

	switch m.focus {
	case paneFunctions:
		return m.handleFunctionsKey(msg), false
	case paneArgs:
		return m.handleArgsKey(msg), false
	case paneContracts:
		return m.handleContractsKey(msg), false
	}
	return nil, false
}

func (m *model) handleFunctionsKey(msg tea.KeyMsg) tea.Cmd {
	fns := m.functions()
	switch msg.String() {
	case "up", "k":
		m.fnCursor = clamp(m.fnCursor-1, 0, len(fns)-1)
		m.rowCursor = 0
	case "down", "j":
		m.fnCursor = clamp(m.fnCursor+1, 0, len(fns)-1)
		m.rowCursor = 0
	case "enter", "right", "l":
		if len(m.rows()) > 0 {
			m.focus = paneArgs
		}
	case "r":
		return m.runCmd()
	case "n":
		if fn, ok := m.selectedFunction(); ok {
			return m.beginInput(inputNote, "note for "+fn.Name, m.wb.Note(fn.Name))
		}
	}
	return nil
}

func (m *model) handleArgsKey(msg tea.KeyMsg) tea.Cmd {
	rows := m.rows()
	if len(rows) == 0 {
		m.focus = paneFunctions
		return nil
	}
	m.rowCursor = clamp(m.rowCursor, 0, len(rows)-1)
	row := rows[m.rowCursor]

	switch msg.String() {
	case "up", "k":
		m.rowCursor = clamp(m.rowCursor-1, 0, len(rows)-1)
	case "down", "j":
		m.rowCursor = clamp(m.rowCursor+1, 0, len(rows)-1)
	case "esc", "left", "h":
		m.focus = paneFunctions
	case "enter":
		switch {
		case row.line.Kind == editor.LineBool:
			m.edit(row, func(ed *editor.Editor) error { return ed.Toggle(row.line.Path) })
		case row.line.Editable():
			m.editing = row
			return m.beginInput(inputValue, row.line.Label, row.line.Text)
		}
	case " ", "space":
		if row.line.Kind == editor.LineBool {
			m.edit(row, func(ed *editor.Editor) error { return ed.Toggle(row.line.Path) })
		}
	case "a":
		m.edit(row, func(ed *editor.Editor) error { return ed.Append(row.line.Path) })
	case "x":
		path := row.line.Path
		if len(path) == 0 {
			m.setError(fmt.Errorf("%s is not an array element", row.line.Label))
			break
		}
		m.edit(row, func(ed *editor.Editor) error { return ed.Remove(path[:len(path)-1], path[len(path)-1]) })
		m.rowCursor = clamp(m.rowCursor, 0, len(m.rows())-1)
	case "w":
		m.edit(row, func(ed *editor.Editor) error { return ed.ToSmallestUnit(row.line.Path) })
	case "e":
		m.edit(row, func(ed *editor.Editor) error { return ed.ToDisplayUnit(row.line.Path) })
	case "r":
		return m.runCmd()
	case "n":
		if fn, ok := m.selectedFunction(); ok {
			return m.beginInput(inputNote, "note for "+fn.Name, m.wb.Note(fn.Name))
		}
	}
	return nil
}

func (m *model) handleContractsKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		m.contractCursor = clamp(m.contractCursor-1, 0, len(m.contracts)-1)
	case "down", "j":
		m.contractCursor = clamp(m.contractCursor+1, 0, len(m.contracts)-1)
	case "esc", "left", "h":
		m.focus = paneFunctions
	case "enter":
		if c := m.selectedContract(); c != nil {
			return m.loadCmd(c.ID)
		}
	case "x", "d":
		if c := m.selectedContract(); c != nil {
			return m.deleteCmd(c.ID)
		}
	}
	return nil
}

func (m *model) handleInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.endInput()
		return nil
	case "enter":
		mode, text := m.mode, m.input.Value()
		m.endInput()
		return m.commitInput(mode, text)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *model) commitInput(mode inputMode, text string) tea.Cmd {
	switch mode {
	case inputValue:
		row := m.editing
		m.edit(row, func(ed *editor.Editor) error { return ed.SetText(row.line.Path, text) })
	case inputNote:
		if fn, ok := m.selectedFunction(); ok {
			return m.noteCmd(fn.Name, strings.TrimSpace(text))
		}
	case inputAddress:
		m.wb.SetAddress(text)
		m.setStatus("address set")
	case inputName:
		m.wb.SetName(strings.TrimSpace(text))
		m.setStatus("name set")
	case inputABI:
		if err := m.wb.SetABI(text); err != nil {
			m.setError(err)
			break
		}
		m.fnCursor, m.rowCursor = 0, 0
		m.focus = paneFunctions
		m.setStatus(fmt.Sprintf("%d functions", len(m.wb.Functions())))
	}
	return nil
}

func (m *model) beginInput(mode inputMode, placeholder, value string) tea.Cmd {
	m.mode = mode
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *model) endInput() {
	m.mode = inputNone
	m.input.Blur()
	m.input.SetValue("")
}

// edit applies op to a fresh editor over the row's argument. The panel
// keeps the result through the editor's change callback.
func (m *model) edit(row argRow, op func(*editor.Editor) error) {
	p, ok := m.selectedPanel()
	if !ok {
		return
	}
	ed, err := p.Editor(row.arg)
	if err != nil {
		m.setError(err)
		return
	}
	if err := op(ed); err != nil {
		m.setError(err)
		return
	}
	m.statusErr = false
}

func (m *model) runCmd() tea.Cmd {
	p, ok := m.selectedPanel()
	if !ok {
		return nil
	}
	if p.Loading() {
		m.setError(workbench.ErrDispatchInFlight)
		return nil
	}
	ctx, sig := m.ctx, p.Function().Signature()
	m.setStatus("running " + p.Function().Name)
	return func() tea.Msg {
		outcome, err := p.Run(ctx)
		return runDoneMsg{signature: sig, outcome: outcome, err: err}
	}
}

func (m *model) saveCmd() tea.Cmd {
	ctx, wb := m.ctx, m.wb
	return func() tea.Msg {
		record, err := wb.Save(ctx)
		return savedMsg{record: record, err: err}
	}
}

func (m *model) listContractsCmd() tea.Cmd {
	if m.store == nil {
		m.setError(workbench.ErrNoStore)
		return nil
	}
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		contracts, err := store.ListContracts(ctx)
		return contractsMsg{contracts: contracts, err: err}
	}
}

func (m *model) loadCmd(id string) tea.Cmd {
	ctx, wb := m.ctx, m.wb
	return func() tea.Msg {
		record, err := wb.Load(ctx, id)
		return loadedMsg{record: record, err: err}
	}
}

func (m *model) deleteCmd(id string) tea.Cmd {
	ctx, wb := m.ctx, m.wb
	return func() tea.Msg {
		return deletedMsg{id: id, err: wb.Delete(ctx, id)}
	}
}

func (m *model) noteCmd(fn, text string) tea.Cmd {
	ctx, wb := m.ctx, m.wb
	return func() tea.Msg {
		return noteSavedMsg{fn: fn, err: wb.SetNote(ctx, fn, text)}
	}
}

func (m *model) functions() []schema.Function {
	if m.tab == tabWrite {
		return m.wb.WriteFunctions()
	}
	return m.wb.ReadFunctions()
}

func (m *model) selectedFunction() (schema.Function, bool) {
	fns := m.functions()
	if m.fnCursor < 0 || m.fnCursor >= len(fns) {
		return schema.Function{}, false
	}
	return fns[m.fnCursor], true
}

func (m *model) selectedPanel() (*workbench.Panel, bool) {
	fn, ok := m.selectedFunction()
	if !ok {
		return nil, false
	}
	p, err := m.wb.Panel(fn.Signature())
	if err != nil {
		return nil, false
	}
	return p, true
}

func (m *model) selectedContract() *storage.SavedContract {
	if m.contractCursor < 0 || m.contractCursor >= len(m.contracts) {
		return nil
	}
	return m.contracts[m.contractCursor]
}

// rows flattens every argument of the selected function.
func (m *model) rows() []argRow {
	p, ok := m.selectedPanel()
	if !ok {
		return nil
	}
	var rows []argRow
	for i := range p.Function().Inputs {
		ed, err := p.Editor(i)
		if err != nil {
			continue
		}
		for _, line := range ed.Lines() {
			rows = append(rows, argRow{arg: i, line: line})
		}
	}
	return rows
}

func (m *model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
	if errors.Is(err, workbench.ErrIncomplete) {
		m.status = "address and ABI required"
	}
}

func (m *model) resize() {
	contentWidth := max(40, m.width-4)
	m.input.Width = max(20, contentWidth-6)
	m.logs.Width = max(20, contentWidth-4)
	m.logs.Height = max(3, m.height/4)
}

func (m *model) refreshLogs() {
	entries := m.wb.Sink().Entries()
	if len(entries) == 0 {
		m.logs.SetContent(m.theme.muted.Render("No log entries"))
		return
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, m.theme.severity[e.Severity].Render(logsink.Format(e)))
	}
	m.logs.SetContent(strings.Join(lines, "\n"))
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}

func (m model) View() string {
	header := m.renderHeader()
	content := m.renderContent()
	logs := m.theme.panel.Width(max(40, m.width-4)).Render(
		m.theme.panelTitle.Render("Log") + "\n" + m.logs.View(),
	)
	footer := m.renderFooter()
	return m.theme.root.Render(lipgloss.JoinVertical(lipgloss.Left, header, content, logs, footer))
}

func (m model) renderHeader() string {
	tabs := []struct {
		id    tabID
		label string
	}{
		{tabRead, fmt.Sprintf("Read (%d)", len(m.wb.ReadFunctions()))},
		{tabWrite, fmt.Sprintf("Write (%d)", len(m.wb.WriteFunctions()))},
	}
	segments := make([]string, 0, len(tabs)+1)
	for _, tab := range tabs {
		style := m.theme.tabInactive
		if tab.id == m.tab {
			style = m.theme.tabActive
		}
		segments = append(segments, style.Render(tab.label))
	}

	address := m.wb.Address()
	if address == "" {
		address = "no address"
	}
	meta := fmt.Sprintf("  %s · %s", m.wb.Name(), address)
	if id := m.wb.ActiveID(); id != "" {
		meta += " · saved"
	}
	segments = append(segments, m.theme.muted.Render(meta))

	joined := lipgloss.JoinHorizontal(lipgloss.Left, segments...)
	return m.theme.header.Width(max(40, m.width-4)).Render(joined)
}

func (m model) renderContent() string {
	contentWidth := max(40, m.width-4)
	leftWidth := contentWidth / 3
	rightWidth := contentWidth - leftWidth - 1

	left := m.theme.panel.Width(leftWidth).Render(
		m.theme.panelTitle.Render("Functions") + "\n" + m.renderFunctions(),
	)

	var right string
	if m.focus == paneContracts {
		right = m.theme.panel.Width(rightWidth).Render(
			m.theme.panelTitle.Render("Saved contracts") + "\n" + m.renderContracts(),
		)
	} else {
		right = m.theme.panel.Width(rightWidth).Render(m.renderArgs())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m model) renderFunctions() string {
	fns := m.functions()
	if len(fns) == 0 {
		return m.theme.muted.Render("No functions. Press B to paste an ABI.")
	}

	var b strings.Builder
	for i, fn := range fns {
		marker := "  "
		if i == m.fnCursor {
			marker = m.theme.cursor.Render("› ")
		}
		line := marker + fn.Name
		if m.wb.Note(fn.Name) != "" {
			line += m.theme.note.Render(" ✎")
		}
		if m.running(fn) {
			line += " " + m.spinner.View()
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m model) running(fn schema.Function) bool {
	if s, ok := m.states[fn.Signature()]; ok && !s.Terminal() {
		return true
	}
	p, err := m.wb.Panel(fn.Signature())
	return err == nil && p.Loading()
}

func (m model) renderArgs() string {
	fn, ok := m.selectedFunction()
	if !ok {
		return m.theme.muted.Render("Select a function")
	}

	var b strings.Builder
	b.WriteString(m.theme.panelTitle.Render(fn.Signature()))
	b.WriteString(m.theme.muted.Render(" " + fn.Mutability.String()))
	if s, ok := m.states[fn.Signature()]; ok {
		b.WriteString(" " + m.spinner.View() + " " + s.String())
	}
	b.WriteString("\n")
	if note := m.wb.Note(fn.Name); note != "" {
		b.WriteString(m.theme.note.Render("✎ " + note))
		b.WriteString("\n")
	}

	rows := m.rows()
	if len(rows) == 0 {
		b.WriteString(m.theme.muted.Render("(no arguments)"))
	}
	for i, row := range rows {
		marker := "  "
		if m.focus == paneArgs && i == m.rowCursor {
			marker = m.theme.cursor.Render("› ")
		}
		b.WriteString(marker + strings.Repeat("  ", row.line.Depth) + m.renderLine(row.line))
		b.WriteString("\n")
	}

	if p, ok := m.selectedPanel(); ok {
		if out := p.LastOutcome(); out != nil {
			style := m.theme.severity[logsink.Success]
			text := "last run " + out.State.String()
			if out.Err != nil {
				style = m.theme.severity[logsink.Error]
				text += ": " + dispatcher.ShortMessage(out.Err)
			}
			b.WriteString(style.Render(text))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m model) renderLine(l editor.Line) string {
	label := l.Label + " " + m.theme.muted.Render(l.TypeName)
	switch l.Kind {
	case editor.LineBool:
		box := "[ ]"
		if l.Text == "true" {
			box = "[x]"
		}
		return box + " " + label
	case editor.LineArray:
		s := fmt.Sprintf("%s [%d]", label, l.Len)
		if !l.Fixed {
			s += m.theme.muted.Render("  a add")
		}
		return s
	case editor.LineTuple:
		return label
	default:
		text := l.Text
		if text == "" {
			text = m.theme.muted.Render("(empty)")
		}
		return label + ": " + text
	}
}

func (m model) renderContracts() string {
	if len(m.contracts) == 0 {
		return m.theme.muted.Render("No saved contracts")
	}
	var b strings.Builder
	for i, c := range m.contracts {
		marker := "  "
		if i == m.contractCursor {
			marker = m.theme.cursor.Render("› ")
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", marker, c.Name, m.theme.muted.Render(c.Address)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m model) renderFooter() string {
	var lines []string
	if m.mode != inputNone {
		lines = append(lines, m.input.View())
	}

	statusStyle := m.theme.status
	if m.statusErr {
		statusStyle = m.theme.errorStatus
	}
	lines = append(lines, statusStyle.Render(m.status))

	var help string
	switch {
	case m.mode != inputNone:
		help = "enter confirm · esc cancel"
	case m.focus == paneArgs:
		help = "↑/↓ move · enter edit/toggle · a add · x remove · w to wei · e to ether · r run · esc back"
	case m.focus == paneContracts:
		help = "↑/↓ move · enter load · x delete · esc back"
	default:
		help = "tab read/write · enter args · r run · n note · s save · o saved · A address · N name · B abi · c clear log · t theme · q quit"
	}
	lines = append(lines, m.theme.muted.Render(help))
	return strings.Join(lines, "\n")
}
