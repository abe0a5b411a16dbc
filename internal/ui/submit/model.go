// Package submit shows a spinner while a single issue is being created.
package submit

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/jira-issues/internal/keys"
	"github.com/nhle/jira-issues/internal/model"
	"github.com/nhle/jira-issues/internal/theme"
)

// CreateFunc performs the creation the spinner waits for.
type CreateFunc func(ctx context.Context) (*model.CreatedIssue, error)

// doneMsg carries the outcome of CreateFunc.
type doneMsg struct {
	issue *model.CreatedIssue
	err   error
}

// Model is the Bubble Tea model of the submit spinner.
type Model struct {
	spinner spinner.Model
	keys    keys.SubmitKeyMap
	help    help.Model
	ctx     context.Context
	cancel  context.CancelFunc
	create  CreateFunc
	label   string

	done     bool
	issue    *model.CreatedIssue
	err      error
	canceled bool
}

// New creates a spinner model that runs create once when started.
func New(ctx context.Context, label string, create CreateFunc) Model {
	ctx, cancel := context.WithCancel(ctx)
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(theme.SpinnerStyle),
	)
	return Model{
		spinner: s,
		keys:    keys.DefaultSubmitKeyMap(),
		help:    help.New(),
		ctx:     ctx,
		cancel:  cancel,
		create:  create,
		label:   label,
	}
}

// Init starts the spinner and the creation.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run())
}

func (m Model) run() tea.Cmd {
	ctx, create := m.ctx, m.create
	return func() tea.Msg {
		issue, err := create(ctx)
		return doneMsg{issue: issue, err: err}
	}
}

// Update handles spinner ticks, completion and ctrl+c.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.done = true
		m.issue = msg.issue
		m.err = msg.err
		m.cancel()
		return m, tea.Quit

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Cancel) {
			// The request is cancelled; the result still arrives as doneMsg.
			m.canceled = true
			m.cancel()
			return m, nil
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the spinner line, or nothing once done.
func (m Model) View() string {
	if m.done {
		return ""
	}
	if m.canceled {
		return fmt.Sprintf("%s %s\n", m.spinner.View(), theme.HelpStyle.Render("cancelling..."))
	}
	return fmt.Sprintf("%s %s\n%s\n", m.spinner.View(), m.label, m.help.View(m.keys))
}

// Result returns the outcome once the program has finished.
func (m Model) Result() (*model.CreatedIssue, error) {
	if !m.done {
		return nil, context.Canceled
	}
	return m.issue, m.err
}

// Run executes create behind a spinner on the terminal and returns its
// outcome.
func Run(ctx context.Context, label string, create CreateFunc, opts ...tea.ProgramOption) (*model.CreatedIssue, error) {
	final, err := tea.NewProgram(New(ctx, label, create), opts...).Run()
	if err != nil {
		return nil, fmt.Errorf("running spinner: %w", err)
	}
	m, ok := final.(Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model %T", final)
	}
	return m.Result()
}
