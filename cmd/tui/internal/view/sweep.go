package view

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Sweeper runs the cleanup jobs.
type Sweeper interface {
	SweepEscrows(ctx context.Context) (int, error)
	SweepSponsorships(ctx context.Context) (int64, error)
}

type sweepState int

const (
	sweepStateConfirm sweepState = iota
	sweepStateRunning
	sweepStateResult
)

const (
	jobEscrow      = "escrow"
	jobSponsorship = "sponsorship"
)

const sweepTimeout = 2 * time.Minute

type sweepChoice struct {
	job     string
	confirm bool
}

type SweepModel struct {
	CommonModel
	sweeper Sweeper

	state   sweepState
	form    *huh.Form
	choice  *sweepChoice
	spinner spinner.Model
	summary string
	err     error
}

func NewSweepModel(sweeper Sweeper) SweepModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	choice := &sweepChoice{job: jobEscrow}

	return SweepModel{
		sweeper: sweeper,
		state:   sweepStateConfirm,
		choice:  choice,
		form:    buildSweepForm(choice),
		spinner: s,
	}
}

func buildSweepForm(c *sweepChoice) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Cleanup job").
				Options(
					huh.NewOption("Release overdue escrows", jobEscrow),
					huh.NewOption("Clear expired sponsorships", jobSponsorship),
				).
				Value(&c.job),
			huh.NewConfirm().
				Title("Run it now?").
				Description("Released escrows pay out to sellers and cannot be undone.").
				Affirmative("Run").
				Negative("Cancel").
				Value(&c.confirm),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m SweepModel) Title() string { return "Run Cleanup" }

func (m SweepModel) ShortHelp() string {
	switch m.state {
	case sweepStateRunning:
		return "Running..."
	case sweepStateResult:
		return "Esc: back to menu"
	}

	return "Esc: back | Enter: confirm"
}

func (m SweepModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m SweepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case sweepStateConfirm:
		return m.updateConfirm(msg)
	case sweepStateRunning:
		return m.updateRunning(msg)
	case sweepStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m SweepModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !m.choice.confirm {
		return m, Back
	}

	m.state = sweepStateRunning

	return m, tea.Batch(m.spinner.Tick, m.runCmd(m.choice.job))
}

func (m SweepModel) updateRunning(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(sweepResultMsg); ok {
		m.state = sweepStateResult
		m.err = result.err
		m.summary = result.summary

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m SweepModel) View() string {
	switch m.state {
	case sweepStateConfirm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case sweepStateRunning:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Running cleanup...", m.spinner.View()),
		)

	case sweepStateResult:
		return m.viewResult()
	}

	return ""
}

func (m SweepModel) viewResult() string {
	lines := []string{}

	if m.summary != "" {
		lines = append(lines,
			lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")).Render("Cleanup finished"),
			"",
			m.summary,
		)
	}

	// A sweep can release some escrows and still report failures.
	if m.err != nil {
		lines = append(lines, "",
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)),
		)
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

type sweepResultMsg struct {
	summary string
	err     error
}

func (m SweepModel) runCmd(job string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()

		switch job {
		case jobSponsorship:
			n, err := m.sweeper.SweepSponsorships(ctx)
			if err != nil {
				return sweepResultMsg{err: err}
			}

			return sweepResultMsg{summary: fmt.Sprintf("Cleared %d expired sponsorships.", n)}
		default:
			n, err := m.sweeper.SweepEscrows(ctx)

			return sweepResultMsg{summary: fmt.Sprintf("Released %d escrows.", n), err: err}
		}
	}
}
