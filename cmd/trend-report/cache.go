package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/trend-report/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local result cache",
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete expired entries from the result cache",
	RunE:  runCachePurge,
}

func runCachePurge(cmd *cobra.Command, args []string) error {
	c, err := cache.New(cacheConfig(cmd))
	if err != nil {
		return err
	}
	defer c.Close()

	n, err := c.Purge(time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("Purged %d expired cache entries\n", n)
	return nil
}

func init() {
	cacheCmd.PersistentFlags().String("cache-dir", "", "cache directory (default: cache)")

	cacheCmd.AddCommand(cachePurgeCmd)
	rootCmd.AddCommand(cacheCmd)
}
