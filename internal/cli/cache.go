package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ridgeline/pkg/cache"
	"github.com/matzehuels/ridgeline/pkg/config"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered artifact cache",
		Long: `Manage cached backdrop artifacts and content snapshots in the configured
backend ([cache] backend = file, redis, memory or none).`,
	}
	cmd.AddCommand(c.cacheClearCommand(), c.cachePathCommand())
	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove cached artifacts and content snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := c.Config.Cache
			ch, err := cc.OpenCache(cmd.Context())
			if err != nil {
				return err
			}
			defer ch.Close()

			clr, ok := ch.(cache.Clearer)
			if !ok {
				printWarning("The %s backend stores nothing to clear", cc.Backend)
				return nil
			}
			n, err := clr.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear %s cache: %w", cc.Backend, err)
			}
			printSuccess("Cleared %d cached entries", n)
			switch cc.Backend {
			case config.CacheFile:
				if dir, err := cc.CacheDir(); err == nil {
					printDetail("Directory: %s", dir)
				}
			case config.CacheRedis:
				printDetail("Scope: %q", cc.Prefix)
			}
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.Config.Cache.CacheDir()
			if err != nil {
				return fmt.Errorf("resolve cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
