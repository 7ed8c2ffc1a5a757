// Package main is the entry point for the tally application.
package main

import (
	"fmt"
	"os"

	"github.com/oakmere/tally/internal/app"
	"github.com/oakmere/tally/internal/tui"
	"github.com/oakmere/tally/internal/tui/events"
	tea "github.com/charmbracelet/bubbletea/v2"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tally: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	workingDir, err := os.Getwd()
	if err != nil {
		workingDir = "."
	}

	eventBroker := events.NewBroker()
	application, err := app.New(workingDir, eventBroker)
	if err != nil {
		return err
	}
	defer application.Close()

	model := tui.New(application, eventBroker)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	model.Stop()
	return err
}
