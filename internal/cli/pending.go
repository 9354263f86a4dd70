package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wordtiles/pkg/intake"
	"github.com/matzehuels/wordtiles/pkg/order"
)

// pendingCommand creates the pending command for listing unprocessed orders.
func (c *CLI) pendingCommand() *cobra.Command {
	var (
		jsonDir     string
		output      string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List orders that have no output yet",
		Long: `Pending lists the order files in the orders directory that have no matching
directory in the output directory. With --interactive, pick one to process.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonDir == "" {
				jsonDir = c.Config.Orders.JSONDir
			}
			if output == "" {
				output = c.Config.Orders.OutputDir
			}
			return c.runPending(cmd.Context(), jsonDir, output, interactive)
		},
	}

	cmd.Flags().StringVar(&jsonDir, "orders", "", "order JSON directory (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default from config)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick an order to process")

	return cmd
}

func (c *CLI) runPending(ctx context.Context, jsonDir, output string, interactive bool) error {
	ids, err := intake.Pending(jsonDir, output)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		printInfo("No pending orders in %s", jsonDir)
		return nil
	}
	orders := loadPendingOrders(jsonDir, ids, loggerFromContext(ctx))

	if !interactive {
		t := newTable(pendingHeaders...)
		for _, o := range orders {
			t.Row(o.row()...)
		}
		fmt.Println(t.Render())
		printDetail("%d pending", len(orders))
		return nil
	}

	final, err := tea.NewProgram(NewOrderListModel(orders), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("order picker: %w", err)
	}
	m, ok := final.(OrderListModel)
	if !ok || m.Selected == nil {
		return nil
	}
	return c.runOrder(ctx, filepath.Join(jsonDir, m.Selected.ID+order.Ext), output, false, false)
}

func modTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}
