package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bpmnlayout/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout cache",
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
		Long: `Remove all cached layouts and artifacts.

Only the local backends (file and sqlite) are cleared here; redis and mongo
entries expire on their own.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.Config.Cache
			switch strings.ToLower(opts.Backend) {
			case cache.BackendFile:
				dir, err := c.cacheLocation()
				if err != nil {
					return err
				}
				if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
					printInfo("Cache is empty")
					return nil
				}
				fc, err := cache.NewFileCache(dir)
				if err != nil {
					return err
				}
				count, err := fc.Clear()
				if err != nil {
					return err
				}
				printSuccess("Cleared %d cached entries", count)
				printDetail("Directory: %s", dir)
			case cache.BackendSQLite:
				path, err := c.cacheLocation()
				if err != nil {
					return err
				}
				removed := 0
				for _, p := range []string{path, path + "-wal", path + "-shm"} {
					if err := os.Remove(p); err == nil {
						removed++
					} else if !errors.Is(err, os.ErrNotExist) {
						return fmt.Errorf("remove %s: %w", p, err)
					}
				}
				if removed == 0 {
					printInfo("Cache is empty")
					return nil
				}
				printSuccess("Removed cache database")
				printDetail("File: %s", path)
			default:
				printWarning("The %s backend is not cleared from the CLI", backendName(opts.Backend))
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := c.cacheLocation()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), loc)
			return nil
		},
	}
}

// cacheLocation returns the directory, database file or URL the configured
// backend stores entries in.
func (c *CLI) cacheLocation() (string, error) {
	opts := c.Config.Cache
	dir := opts.Dir
	if dir == "" {
		var err error
		if dir, err = cache.DefaultDir(); err != nil {
			return "", fmt.Errorf("get cache dir: %w", err)
		}
	}
	switch strings.ToLower(opts.Backend) {
	case cache.BackendFile:
		return dir, nil
	case cache.BackendSQLite:
		if opts.Path != "" {
			return opts.Path, nil
		}
		return filepath.Join(dir, "cache.db"), nil
	case cache.BackendRedis, cache.BackendMongo:
		return opts.URL, nil
	}
	return "", fmt.Errorf("the %s backend has no location", backendName(opts.Backend))
}

func backendName(b string) string {
	if b == "" {
		return cache.BackendNone
	}
	return b
}
