package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"prism/internal/loc"
	"prism/internal/loccache"
	"prism/internal/locparse"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Store and restore location snapshots",
}

var cachePutCmd = &cobra.Command{
	Use:   "put [flags] file",
	Short: "Snapshot a file of location strings into the cache",
	Args:  cobra.ExactArgs(1),
	RunE:  runCachePut,
}

var cacheGetCmd = &cobra.Command{
	Use:   "get [flags] digest",
	Short: "Restore a cached snapshot and print its locations",
	Args:  cobra.ExactArgs(1),
	RunE:  runCacheGet,
}

func init() {
	cacheCmd.PersistentFlags().String("dir", "", "cache directory (defaults to the user cache dir)")
	cacheCmd.AddCommand(cachePutCmd)
	cacheCmd.AddCommand(cacheGetCmd)
}

func openCache(cmd *cobra.Command) (*loccache.DiskCache, error) {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return nil, fmt.Errorf("failed to get dir flag: %w", err)
	}
	if dir != "" {
		return loccache.OpenDiskCacheAt(dir)
	}
	return loccache.OpenDiskCache("prism")
}

func runCachePut(cmd *cobra.Command, args []string) error {
	cache, err := openCache(cmd)
	if err != nil {
		return err
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	ctx := loc.NewContext()
	var roots []loc.Loc
	for i, line := range strings.Split(string(src), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		l, err := locparse.Parse(ctx, trimmed)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", args[0], i+1, err)
		}
		roots = append(roots, l)
	}

	snap, err := loccache.Export(roots)
	if err != nil {
		return err
	}
	key := loccache.DigestOf(src)
	if err := cache.Put(key, snap); err != nil {
		return err
	}

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %d locations\n", key, len(roots))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), key)
	}
	return nil
}

func runCacheGet(cmd *cobra.Command, args []string) error {
	cache, err := openCache(cmd)
	if err != nil {
		return err
	}
	raw, err := hex.DecodeString(args[0])
	if err != nil || len(raw) != len(loccache.Digest{}) {
		return fmt.Errorf("invalid digest %q", args[0])
	}
	var key loccache.Digest
	copy(key[:], raw)

	var snap loccache.Snapshot
	ok, err := cache.Get(key, &snap)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no cache entry for %s", key)
	}

	ctx := loc.NewContext()
	roots, err := loccache.Import(ctx, &snap)
	if err != nil {
		return err
	}
	for _, l := range roots {
		fmt.Fprintln(cmd.OutOrStdout(), l)
	}
	return nil
}
