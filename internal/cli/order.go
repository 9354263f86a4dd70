package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordtiles/pkg/errors"
	"github.com/matzehuels/wordtiles/pkg/intake"
	"github.com/matzehuels/wordtiles/pkg/order"
)

// orderCommand creates the order command for processing one order file.
func (c *CLI) orderCommand() *cobra.Command {
	var (
		output  string
		force   bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "order FILE",
		Short: "Lay out and render a single order file",
		Long: `Order reads an order JSON file and writes boardImage.png, poster.png and
layout.json to <output>/<orderID>/, the same way the watch command does.`,
		Example: `  wordtiles order orders/1001.json
  wordtiles order orders/1001.json --output out --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = c.Config.Orders.OutputDir
			}
			return c.runOrder(cmd.Context(), args[0], output, force, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default from config)")
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing order directory")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the cache")

	return cmd
}

func (c *CLI) runOrder(ctx context.Context, path, output string, force, noCache bool) error {
	if filepath.Ext(path) != order.Ext {
		return errors.New(errors.ErrCodeInvalidInput, "order file %s must end in %s", path, order.Ext)
	}
	id := order.IDFromPath(path)
	dest := filepath.Join(output, id)
	if _, err := os.Stat(dest); err == nil {
		if !force {
			printInfo("Order %s already rendered", id)
			printFile(dest)
			return nil
		}
		if err := os.RemoveAll(dest); err != nil {
			return fmt.Errorf("remove %s: %w", dest, err)
		}
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	proc := intake.NewProcessor(runner, filepath.Dir(path), output,
		intake.WithTemplate(c.Config.Template()),
		intake.WithLogger(loggerFromContext(ctx)),
	)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Placing order %s...", id))
	spinner.Start()
	status, err := proc.ProcessOrder(ctx, id)
	switch status {
	case intake.StatusCompleted:
		spinner.StopWithSuccess(fmt.Sprintf("Order %s complete", id))
		for _, name := range []string{intake.BoardFile, intake.PosterFile, intake.LayoutFile} {
			printFile(filepath.Join(dest, name))
		}
		return nil
	case intake.StatusExhausted:
		spinner.Stop()
		printWarning("No layout found for order %s", id)
		printDetail("Raise engine.retry_budget or change engine.seed in the config")
	default:
		spinner.StopWithError(fmt.Sprintf("Order %s %s", id, status))
	}
	return err
}
