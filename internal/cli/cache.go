package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordtiles/pkg/cache"
	"github.com/matzehuels/wordtiles/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts and artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := c.newCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer store.Close()

			var count int
			switch s := store.(type) {
			case *cache.FileCache:
				count, err = s.Clear()
				if err != nil {
					return fmt.Errorf("clear %s: %w", s.Dir(), err)
				}
				printSuccess("Cleared %d cached entries", count)
				printDetail("Directory: %s", s.Dir())
			case *cache.RedisCache:
				prefix := c.Config.Cache.Prefix
				for _, pattern := range []string{prefix + "layout:*", prefix + "artifact:*"} {
					n, err := s.Clear(cmd.Context(), pattern)
					if err != nil {
						return fmt.Errorf("clear redis keys %s: %w", pattern, err)
					}
					count += n
				}
				printSuccess("Cleared %d cached entries", count)
				printDetail("Keys: %slayout:*, %sartifact:*", prefix, prefix)
			default:
				printInfo("Cache is disabled")
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache is stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch c.Config.Cache.Backend {
			case config.BackendRedis:
				fmt.Println(c.Config.Cache.RedisURL)
			case config.BackendNone:
				printInfo("Cache is disabled")
			default:
				dir, err := c.cacheDir()
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				fmt.Println(dir)
			}
			return nil
		},
	}
}
