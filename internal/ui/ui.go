package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"prazo/internal/config"
	"prazo/internal/deadline"
)

type focus int

const (
	focusSubject focus = iota
	focusRecipient
	focusDeadline
	focusList
)

const fieldCount = 3

// Store is what the TUI needs from the deadline store.
type Store interface {
	Adder
	List() []deadline.Deadline
	Delete(id string)
	RecomputeStatuses() bool
	Today() time.Time
}

// storeChangedMsg tells the model to re-read the store.
type storeChangedMsg struct{}

// clockMsg re-renders so relative descriptions follow the date.
type clockMsg time.Time

type Model struct {
	store      Store
	cfg        config.Config
	form       Form
	inputs     [fieldCount]textinput.Model
	focus      focus
	deadlines  []deadline.Deadline
	cursor     int
	status     string
	confirmDel bool
	pendingDel *deadline.Deadline
	tick       time.Duration
}

// Run starts the TUI and blocks until the user quits. Changes made to the
// store outside the TUI, such as the periodic status refresh, are picked up
// through a subscription.
func Run(store *deadline.Store, cfg config.Config) error {
	m := New(store, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())

	cancel := store.Subscribe(func() {
		// Subscribers run on the mutating goroutine, which may be the
		// program's own event loop; Send must not block it.
		go program.Send(storeChangedMsg{})
	})
	defer cancel()

	_, err := program.Run()
	return err
}

func New(store Store, cfg config.Config) Model {
	placeholders := [fieldCount]string{"Assunto", "Destinatário", "3 dias ou 25/12/2025"}
	var inputs [fieldCount]textinput.Model
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 256
		ti.Width = 40
		inputs[i] = ti
	}
	inputs[focusSubject].Focus()

	tick, err := cfg.Refresh()
	if err != nil {
		tick = deadline.DefaultRefreshInterval
	}

	m := Model{
		store:  store,
		cfg:    cfg,
		inputs: inputs,
		focus:  focusSubject,
		status: "Preencha o formulário e pressione Enter. Tab alterna para a lista.",
		tick:   tick,
	}
	m.reload()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.clockTick())
}

func (m Model) clockTick() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg { return clockMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		if m.focus == focusList {
			return m.updateListMode(msg.String())
		}
		return m.updateFormMode(msg.String(), msg)
	case storeChangedMsg:
		m.reload()
		return m, nil
	case clockMsg:
		return m, m.clockTick()
	case tea.WindowSizeMsg:
		for i := range m.inputs {
			m.inputs[i].Width = max(msg.Width-30, 10)
		}
	}
	return m, nil
}

func (m *Model) reload() {
	m.deadlines = SortedView(m.store.List())
	m.cursor = clampCursor(m.cursor, len(m.deadlines))
}

func (m Model) updateFormMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Confirm:
		return m.submit()
	case m.cfg.Keys.NextField:
		return m.setFocus(m.focus + 1), nil
	case m.cfg.Keys.PrevField:
		return m.setFocus(wrapFocus(m.focus - 1)), nil
	case m.cfg.Keys.Cancel:
		m = m.setFocus(focusList)
		return m, nil
	default:
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	m.form.Subject = m.inputs[focusSubject].Value()
	m.form.Recipient = m.inputs[focusRecipient].Value()
	m.form.Deadline = m.inputs[focusDeadline].Value()

	if err := m.form.Submit(m.store); err != nil {
		m.status = "Não foi possível adicionar o prazo"
		return m, nil
	}

	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	m.reload()
	m.status = "Prazo adicionado"
	return m.setFocus(focusSubject), nil
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		if len(m.deadlines) == 0 {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(m.deadlines))
	case m.cfg.Keys.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.deadlines))
		}
	case m.cfg.Keys.NextField:
		return m.setFocus(focusSubject), nil
	case m.cfg.Keys.PrevField:
		return m.setFocus(focusDeadline), nil
	case m.cfg.Keys.Delete:
		if len(m.deadlines) == 0 {
			return m, nil
		}
		d := m.deadlines[m.cursor]
		m.confirmDel = true
		m.pendingDel = &d
		m.status = fmt.Sprintf("Remover \"%s\"? s/n", d.Subject)
	case m.cfg.Keys.Refresh:
		if m.store.RecomputeStatuses() {
			m.reload()
			m.status = "Situações atualizadas"
		} else {
			m.status = "Nenhuma situação mudou"
		}
	case m.cfg.Keys.Confirm:
		if len(m.deadlines) == 0 {
			m.status = "Nenhum prazo"
			return m, nil
		}
		d := m.deadlines[m.cursor]
		m.status = fmt.Sprintf("Prazo %s • %s • %s • informado como %q",
			d.ID, d.Subject, d.Recipient, d.OriginalInput)
	}
	return m, nil
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Remoção cancelada"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "s", "S", "y", "Y":
		if m.pendingDel == nil {
			m.status = "Nada para remover"
			m.confirmDel = false
			return m, nil
		}
		m.store.Delete(m.pendingDel.ID)
		m.reload()
		m.status = "Prazo removido"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) setFocus(f focus) Model {
	f = wrapFocus(f)
	m.focus = f
	for i := range m.inputs {
		if focus(i) == f {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return m
}

func wrapFocus(f focus) focus {
	n := focus(fieldCount + 1)
	f %= n
	if f < 0 {
		f += n
	}
	return f
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Prazos"))
	b.WriteString("\n\n")
	b.WriteString(m.renderForm())
	b.WriteString("\n---\n")

	if len(m.deadlines) == 0 {
		b.WriteString(mutedStyle.Render("Nenhum prazo cadastrado."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderList(m.store.Today()))
	}

	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(renderHelp(m.cfg.Keys)))

	return b.String()
}

func (m Model) renderForm() string {
	labels := [fieldCount]string{"Assunto", "Destinatário", "Prazo"}
	var b strings.Builder
	for i, label := range labels {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-13s", label)))
		b.WriteString(" ")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}
	if m.form.Err != nil {
		b.WriteString(errorStyle.Render(m.form.Err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderList(today time.Time) string {
	var b strings.Builder
	for i, d := range m.deadlines {
		cursor := " "
		if m.cursor == i && m.focus == focusList {
			cursor = ">"
		}
		style := StatusStyle(d.Status)
		b.WriteString(fmt.Sprintf("%s %s %s → %s  %s  %s  %s\n",
			cursor,
			style.Render("▌"),
			d.Subject,
			d.Recipient,
			FormatDue(d.DueDate),
			style.Render(StatusLabel(d.Status)),
			mutedStyle.Render(RelativeDescription(d.DueDate, today)),
		))
	}
	return b.String()
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s campos • %s adicionar • %s lista • %s/%s mover • %s detalhes • %s remover • %s atualizar • %s sair",
		k.NextField, k.PrevField, k.Confirm, k.Cancel, k.Up, k.Down, k.Confirm, k.Delete, k.Refresh, k.Quit)
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
