package view

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/unimarket/internal/escrow"
)

const pendingLimit = 200

// PendingLister loads escrows still waiting for release.
type PendingLister interface {
	ListPending(ctx context.Context, limit int) ([]*escrow.Escrow, error)
}

type EscrowsModel struct {
	CommonModel
	escrows PendingLister

	table   table.Model
	items   []*escrow.Escrow
	loading bool
	err     error
}

func NewEscrowsModel(escrows PendingLister) EscrowsModel {
	columns := []table.Column{
		{Title: "Transaction", Width: 38},
		{Title: "Listing", Width: 30},
		{Title: "Amount", Width: 14},
		{Title: "Method", Width: 10},
		{Title: "Release", Width: 22},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return EscrowsModel{
		escrows: escrows,
		table:   t,
		loading: true,
	}
}

func (m EscrowsModel) Title() string     { return "Pending Escrows" }
func (m EscrowsModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m EscrowsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m EscrowsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadEscrowsMsg:
		m.loading = false
		m.err = msg.err
		m.items = msg.items
		m.refreshTable(time.Now())

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m EscrowsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading escrows...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	overdue := 0
	now := time.Now()

	for _, e := range m.items {
		if e.Overdue(now) {
			overdue++
		}
	}

	header := fmt.Sprintf("%d pending | %s overdue", len(m.items), activeStyle(fmt.Sprint(overdue)))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	))
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *EscrowsModel) refreshTable(now time.Time) {
	rows := make([]table.Row, 0, len(m.items))
	for _, e := range m.items {
		title, method := "", ""
		if e.Transaction != nil {
			title = e.Transaction.ListingTitle
			method = string(e.Transaction.PaymentMethod)
		}

		rows = append(rows, table.Row{
			e.TransactionID.String(),
			title,
			FormatAmount(e.Amount),
			method,
			FormatDue(e.ReleaseDue, now),
		})
	}

	m.table.SetRows(rows)
}

type loadEscrowsMsg struct {
	items []*escrow.Escrow
	err   error
}

func (m EscrowsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		items, err := m.escrows.ListPending(ctx, pendingLimit)

		return loadEscrowsMsg{items: items, err: err}
	}
}
