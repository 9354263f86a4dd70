package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/wordtiles/pkg/errors"
	"github.com/matzehuels/wordtiles/pkg/order"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// Pending Orders
// =============================================================================

// pendingOrder is a pending order file with its decoded contents.
type pendingOrder struct {
	ID       string
	Order    order.Order
	Modified time.Time
	Err      error // set when the file does not decode or validate
}

// loadPendingOrders decodes each pending order in jsonDir. Unreadable orders
// are logged and listed with their error.
func loadPendingOrders(jsonDir string, ids []string, logger *log.Logger) []pendingOrder {
	out := make([]pendingOrder, len(ids))
	for i, id := range ids {
		path := filepath.Join(jsonDir, id+order.Ext)
		out[i] = pendingOrder{ID: id}
		out[i].Order, out[i].Err = order.LoadOrEmpty(path, logger)
		if mod, err := modTime(path); err == nil {
			out[i].Modified = mod
		}
	}
	return out
}

// row returns the table cells for the order.
func (p pendingOrder) row() []string {
	if p.Err != nil {
		return []string{p.ID, "—", "—", formatRelativeTime(p.Modified), errors.UserMessage(p.Err)}
	}
	words := strings.Join(p.Order.Words, " ")
	if len(words) > 40 {
		words = words[:39] + "…"
	}
	return []string{p.ID, fmt.Sprint(len(p.Order.Words)), words, formatRelativeTime(p.Modified), p.Order.TopText}
}

var pendingHeaders = []string{"Order", "Words", "List", "Received", "Headline"}

// =============================================================================
// OrderListModel - Interactive order selection
// =============================================================================

// OrderListModel is the bubbletea model for picking a pending order.
type OrderListModel struct {
	Orders   []pendingOrder
	Cursor   int
	Selected *pendingOrder
	Height   int
	Offset   int
}

// NewOrderListModel creates a new order list model.
func NewOrderListModel(orders []pendingOrder) OrderListModel {
	return OrderListModel{Orders: orders, Height: 15}
}

func (m OrderListModel) Init() tea.Cmd {
	return nil
}

func (m OrderListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Orders)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Orders) == 0 {
				return m, nil
			}
			o := m.Orders[m.Cursor]
			if o.Err != nil {
				return m, nil
			}
			m.Selected = &o
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m OrderListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Order"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ process  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Orders))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, append([]string{cursor}, m.Orders[i].row()...))
	}

	t := newTable(append([]string{""}, pendingHeaders...)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			idx := m.Offset + row
			if idx >= len(m.Orders) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			o := m.Orders[idx]
			switch {
			case o.Err != nil:
				base = base.Foreground(colorDim)
			case col == 4:
				base = base.Foreground(colorGray)
			default:
				base = base.Foreground(colorGreen)
			}
			if idx == m.Cursor {
				base = base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Orders))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	diff := time.Since(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
