package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"prism/internal/loc"
	"prism/internal/locparse"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] [file...]",
	Short: "Canonicalize files of location strings",
	Long:  `Fmt rewrites newline-separated location strings into canonical form; with no files it filters stdin`,
	RunE:  runFmt,
}

func init() {
	fmtCmd.Flags().Bool("write", false, "rewrite files in place instead of printing")
	fmtCmd.Flags().Int("jobs", 4, "number of files to process in parallel")
}

func runFmt(cmd *cobra.Command, args []string) error {
	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return fmt.Errorf("failed to get write flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if jobs < 1 {
		jobs = 1
	}

	if len(args) == 0 {
		src, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return err
		}
		out, err := canonicalize("<stdin>", string(src))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	}

	// One file per task; results are collected by index so output order
	// stays deterministic regardless of scheduling.
	results := make([]string, len(args))
	var g errgroup.Group
	g.SetLimit(jobs)
	for i, path := range args {
		g.Go(func() error {
			src, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			out, err := canonicalize(path, string(src))
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, path := range args {
		if write {
			if err := os.WriteFile(path, []byte(results[i]), 0o644); err != nil {
				return err
			}
			continue
		}
		fmt.Fprint(cmd.OutOrStdout(), results[i])
	}
	return nil
}

// canonicalize parses every non-blank line of src and renders it in
// canonical form. Blank lines and #-comments pass through untouched,
// as does a trailing newline.
func canonicalize(path, src string) (string, error) {
	ctx := loc.NewContext()
	lines := strings.Split(src, "\n")
	outs := make([]string, len(lines))
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			outs[i] = line
			continue
		}
		l, err := locparse.Parse(ctx, trimmed)
		if err != nil {
			return "", fmt.Errorf("%s:%d: %w", path, i+1, err)
		}
		outs[i] = l.String()
	}
	return strings.Join(outs, "\n"), nil
}
