package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/meru/pkg/config"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the scene and artifact cache",
	}
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached scene and artifact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.loadSettings()
			if err != nil {
				return err
			}
			ch, err := c.newCache(ctx, false)
			if err != nil {
				return err
			}
			defer ch.Close()

			if err := ch.Clear(ctx); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cleared %s cache", s.Cache.Backend)
			if s.Cache.Backend == config.BackendFile {
				if dir, err := cacheDir(s); err == nil {
					printDetail("Directory: %s", dir)
				}
			}
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadSettings()
			if err != nil {
				return err
			}
			switch s.Cache.Backend {
			case config.BackendRedis:
				fmt.Fprintln(stdout, s.Cache.RedisURL)
			case config.BackendNone:
				printInfo("Caching is disabled")
			default:
				dir, err := cacheDir(s)
				if err != nil {
					return err
				}
				fmt.Fprintln(stdout, dir)
			}
			return nil
		},
	}
}
