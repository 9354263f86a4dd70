package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordtiles/pkg/intake"
)

// watchOpts holds the command-line flags for the watch command.
type watchOpts struct {
	jsonDir     string
	output      string
	concurrency int
	interval    time.Duration
	debounce    time.Duration
	metricsAddr string
	once        bool
	noCache     bool
}

// watchCommand creates the watch command that processes orders as they arrive.
func (c *CLI) watchCommand() *cobra.Command {
	var opts watchOpts

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Process new orders as they arrive",
		Long: `Watch processes every pending order, then waits for order files to be created
or changed and processes those too. Orders are also rescanned every --interval,
so an order whose layout was exhausted is retried on the next pass.`,
		Example: `  wordtiles watch --orders incoming --output rendered
  wordtiles watch --once`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o := c.Config.Orders
			if !cmd.Flags().Changed("orders") {
				opts.jsonDir = o.JSONDir
			}
			if !cmd.Flags().Changed("output") {
				opts.output = o.OutputDir
			}
			if !cmd.Flags().Changed("concurrency") {
				opts.concurrency = o.Concurrency
			}
			if !cmd.Flags().Changed("interval") {
				opts.interval = o.Interval.Duration
			}
			if !cmd.Flags().Changed("debounce") {
				opts.debounce = o.Debounce.Duration
			}
			return c.runWatch(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.jsonDir, "orders", "", "order JSON directory (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default from config)")
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "j", 0, "orders processed at once (0 = one per CPU)")
	cmd.Flags().DurationVar(&opts.interval, "interval", 0, "rescan period, 0 disables (default from config)")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", 0, "quiet period after a file event (default from config)")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics", "", "serve Prometheus metrics on this address")
	cmd.Flags().BoolVar(&opts.once, "once", false, "process pending orders once and exit")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the cache")

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, opts watchOpts) error {
	if opts.metricsAddr != "" {
		c.serveMetrics(ctx, opts.metricsAddr)
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	proc := intake.NewProcessor(runner, opts.jsonDir, opts.output,
		intake.WithConcurrency(opts.concurrency),
		intake.WithTemplate(c.Config.Template()),
		intake.WithLogger(logger),
	)

	if opts.once {
		summary, err := proc.ProcessPending(ctx)
		printSummary(summary)
		if err != nil {
			return err
		}
		if n := len(summary.Failed); n > 0 {
			return fmt.Errorf("%d order(s) failed", n)
		}
		return nil
	}

	printKeyValue("Orders", opts.jsonDir)
	printKeyValue("Output", opts.output)
	if opts.interval > 0 {
		printKeyValue("Rescan", opts.interval.String())
	}
	return intake.NewWatcher(proc,
		intake.WithDebounce(opts.debounce),
		intake.WithInterval(opts.interval),
		intake.WithWatcherLogger(logger),
	).Run(ctx)
}

// printSummary prints the outcome of one pass over the pending orders.
func printSummary(s intake.Summary) {
	if s.Total() == 0 {
		printInfo("No pending orders")
		return
	}
	t := newTable("Status", "Orders")
	for _, r := range []struct {
		status string
		ids    []string
	}{
		{intake.StatusCompleted, s.Completed},
		{intake.StatusExhausted, s.Exhausted},
		{intake.StatusInvalid, s.Invalid},
		{intake.StatusFailed, s.Failed},
	} {
		if len(r.ids) > 0 {
			t.Row(r.status, joinIDs(r.ids))
		}
	}
	fmt.Println(t.Render())
	if len(s.Completed) == s.Total() {
		printSuccess("Processed %d order(s)", s.Total())
		return
	}
	printWarning("%d of %d order(s) need attention", s.Total()-len(s.Completed), s.Total())
}

func joinIDs(ids []string) string {
	const limit = 8
	if len(ids) <= limit {
		return strings.Join(ids, ", ")
	}
	return fmt.Sprintf("%s +%d more", strings.Join(ids[:limit], ", "), len(ids)-limit)
}
