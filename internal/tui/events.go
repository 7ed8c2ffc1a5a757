package tui

import (
	"fmt"

	"github.com/oakmere/tally/internal/export"
	"github.com/oakmere/tally/internal/tui/events"
	tea "github.com/charmbracelet/bubbletea/v2"
)

// handleEvent folds one broker event into visible state. This runs on the
// program goroutine, so pages can be mutated directly.
func (m *Model) handleEvent(event events.Event) tea.Cmd {
	var cmds []tea.Cmd

	switch event.Type {
	case events.SearchUpdatedEvent:
		m.products.Sync()

	case events.StockAdjustedEvent:
		if payload, ok := event.Payload.(events.StockPayload); ok {
			m.products.ApplyStock(payload)
		}

	case events.StockRevertedEvent:
		if payload, ok := event.Payload.(events.StockPayload); ok {
			m.products.ApplyStock(payload)
			cmds = append(cmds, m.statusBar.ShowWarning("Change didn't stick; stock restored"))
		}

	case events.ProductCreatedEvent:
		if payload, ok := event.Payload.(events.ProductPayload); ok {
			m.products.Refetch()
			cmds = append(cmds, m.statusBar.ShowSuccess("Added "+payload.Product.Name))
		}

	case events.ProductDeletedEvent:
		if payload, ok := event.Payload.(events.ProductPayload); ok {
			m.products.Remove(payload.Product.ID)
		}

	case events.ProductRestoredEvent:
		if payload, ok := event.Payload.(events.ProductPayload); ok {
			m.products.Restore(payload.Product)
			cmds = append(cmds, m.statusBar.ShowWarning("Delete failed; "+payload.Product.Name+" restored"))
		}

	case events.ProductUpdatedEvent:
		m.products.Refetch()

	case events.SaleRecordedEvent:
		if payload, ok := event.Payload.(events.SalePayload); ok {
			m.sales.Record(payload.Sale, m.products.NameOf(payload.Sale.ProductID))
			cmds = append(cmds, m.statusBar.ShowSuccess(
				fmt.Sprintf("Sold %d for %s", payload.Sale.Quantity, export.Money(payload.Sale.Total))))
		}

	case events.SaleRefreshEvent:
		cmds = append(cmds, m.sales.Reload())

	case events.SaleFailedEvent:
		if payload, ok := event.Payload.(events.StatusMessagePayload); ok {
			cmds = append(cmds, m.statusBar.ShowError(payload.Message))
		}

	case events.StatusMessageEvent:
		if payload, ok := event.Payload.(events.StatusMessagePayload); ok {
			switch payload.Type {
			case "warning":
				cmds = append(cmds, m.statusBar.ShowWarning(payload.Message))
			case "error":
				cmds = append(cmds, m.statusBar.ShowError(payload.Message))
			case "success":
				cmds = append(cmds, m.statusBar.ShowSuccess(payload.Message))
			default:
				cmds = append(cmds, m.statusBar.ShowInfo(payload.Message))
			}
		}

	case events.ErrorMessageEvent:
		if payload, ok := event.Payload.(events.StatusMessagePayload); ok {
			cmds = append(cmds, m.statusBar.ShowError(payload.Message))
		}

	case events.PageChangeEvent:
		if payload, ok := event.Payload.(events.PageChangePayload); ok {
			switch payload.Page {
			case "sales":
				cmds = append(cmds, m.switchPage(pageSales))
			case "help":
				cmds = append(cmds, m.switchPage(pageHelp))
			default:
				cmds = append(cmds, m.switchPage(pageProducts))
			}
		}

	case events.DebugToggleEvent:
		m.showDebug = !m.showDebug
		state := "off"
		if m.showDebug {
			state = "on"
		}
		cmds = append(cmds, m.statusBar.ShowInfo("Debug logging "+state))
	}

	return tea.Batch(cmds...)
}
