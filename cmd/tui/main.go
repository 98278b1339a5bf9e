package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/unimarket/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/unimarket/internal/config"
	"github.com/MrJamesThe3rd/unimarket/internal/database"
	"github.com/MrJamesThe3rd/unimarket/internal/escrow"
	escrowStore "github.com/MrJamesThe3rd/unimarket/internal/escrow/store"
	"github.com/MrJamesThe3rd/unimarket/internal/jobs"
	"github.com/MrJamesThe3rd/unimarket/internal/listing"
	listingStore "github.com/MrJamesThe3rd/unimarket/internal/listing/store"
	"github.com/MrJamesThe3rd/unimarket/internal/payment/paystack"
)

type model struct {
	escrowService *escrow.Service
	sweeper       *jobs.Sweeper

	currentView View

	escrowsView view.EscrowsModel
	sweepView   view.SweepModel
}

type View int

const (
	ViewMenu    View = 0
	ViewEscrows View = 1
	ViewSweep   View = 2
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	view.Currency = cfg.Paystack.Currency

	gateway := paystack.New(paystack.Config{
		SecretKey: cfg.Paystack.SecretKey,
		BaseURL:   cfg.Paystack.BaseURL,
		Currency:  cfg.Paystack.Currency,
		Timeout:   cfg.Paystack.Timeout,
	})

	supportUserID, err := cfg.SupportUserID()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	escrowSvc := escrow.NewService(escrowStore.New(db), supportUserID)
	listingSvc := listing.NewService(listingStore.New(db))
	sweeper := jobs.NewSweeper(escrowSvc, listingSvc, gateway, cfg.Escrow.SweepBatch)

	return model{
		escrowService: escrowSvc,
		sweeper:       sweeper,
		currentView:   ViewMenu,
		escrowsView:   view.NewEscrowsModel(escrowSvc),
		sweepView:     view.NewSweepModel(sweeper),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewEscrows
				m.escrowsView = view.NewEscrowsModel(m.escrowService)

				return m, m.escrowsView.Init()
			case "2":
				m.currentView = ViewSweep
				m.sweepView = view.NewSweepModel(m.sweeper)

				return m, m.sweepView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewEscrows:
		var newModel tea.Model
		newModel, cmd = m.escrowsView.Update(msg)
		m.escrowsView = newModel.(view.EscrowsModel)
	case ViewSweep:
		var newModel tea.Model
		newModel, cmd = m.sweepView.Update(msg)
		m.sweepView = newModel.(view.SweepModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Unimarket Ops\n\n" +
				"1. Pending Escrows\n" +
				"2. Run Cleanup\n\n" +
				"q. Quit",
		)
	case ViewEscrows:
		return m.escrowsView.View()
	case ViewSweep:
		return m.sweepView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
