package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"prism/internal/loc"
	"prism/internal/locparse"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] location...",
	Short: "Parse location strings and print them back",
	Long:  `Parse reads textual locations, interns them, and prints the canonical form, a tree, or JSON`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|tree|json)")
	parseCmd.Flags().Bool("stats", false, "print node counts per location")
}

func runParse(cmd *cobra.Command, args []string) error {
	explicit, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format := resolveFormat(explicit, cmd.Flags().Changed("format"), "pretty")
	stats, err := cmd.Flags().GetBool("stats")
	if err != nil {
		return fmt.Errorf("failed to get stats flag: %w", err)
	}

	ctx := loc.NewContext()
	out := cmd.OutOrStdout()
	for _, arg := range args {
		l, err := locparse.Parse(ctx, arg)
		if err != nil {
			return fmt.Errorf("parse %q: %w", arg, err)
		}
		switch format {
		case "pretty":
			fmt.Fprintln(out, l)
		case "tree":
			writeTree(out, l, 0)
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(locToJSON(l)); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown format: %s", format)
		}
		if stats {
			n := 0
			l.Walk(func(loc.Loc) bool { n++; return true })
			fmt.Fprintf(out, "# %d nodes\n", n)
		}
	}
	return nil
}

var kindColor = color.New(color.FgCyan)

// writeTree renders a location's provenance DAG with two-space
// indentation, one node per line.
func writeTree(w io.Writer, l loc.Loc, depth int) {
	indent := func() {
		for range depth {
			fmt.Fprint(w, "  ")
		}
	}
	indent()
	switch l.Kind() {
	case loc.KindUnknown:
		fmt.Fprintf(w, "%s\n", kindColor.Sprint("unknown"))
	case loc.KindFileRange:
		f, _ := l.File()
		fmt.Fprintf(w, "%s %q %s\n", kindColor.Sprint("file"), f.Filename, rangeText(f))
	case loc.KindName:
		n, _ := l.Name()
		fmt.Fprintf(w, "%s %q\n", kindColor.Sprint("name"), n.Name)
		if !n.Child.IsUnknown() {
			writeTree(w, n.Child, depth+1)
		}
	case loc.KindCallSite:
		cs, _ := l.CallSite()
		fmt.Fprintf(w, "%s\n", kindColor.Sprint("callsite"))
		writeTree(w, cs.Callee, depth+1)
		writeTree(w, cs.Caller, depth+1)
	case loc.KindFused:
		f, _ := l.Fused()
		if f.HasMetadata {
			fmt.Fprintf(w, "%s <%q>\n", kindColor.Sprint("fused"), f.Metadata)
		} else {
			fmt.Fprintf(w, "%s\n", kindColor.Sprint("fused"))
		}
		for _, e := range f.Locs {
			writeTree(w, e, depth+1)
		}
	case loc.KindOpaque:
		o, _ := l.Opaque()
		fmt.Fprintf(w, "%s tag=%d\n", kindColor.Sprint("opaque"), o.Tag)
		writeTree(w, o.Fallback, depth+1)
	}
}

func rangeText(f loc.FileInfo) string {
	if f.StartCol == loc.Unset {
		return fmt.Sprintf("%d", f.StartLine)
	}
	if f.StartLine == f.EndLine && f.StartCol == f.EndCol {
		return fmt.Sprintf("%d:%d", f.StartLine, f.StartCol)
	}
	return fmt.Sprintf("%d:%d..%d:%d", f.StartLine, f.StartCol, f.EndLine, f.EndCol)
}

// locJSON mirrors the location tree for machine consumers. Line and
// column fields are pointers so an unset column is omitted rather than
// rendered as the sentinel.
type locJSON struct {
	Kind      string     `json:"kind"`
	Text      string     `json:"text"`
	Filename  string     `json:"filename,omitempty"`
	StartLine *uint32    `json:"start_line,omitempty"`
	StartCol  *uint32    `json:"start_col,omitempty"`
	EndLine   *uint32    `json:"end_line,omitempty"`
	EndCol    *uint32    `json:"end_col,omitempty"`
	Name      string     `json:"name,omitempty"`
	Metadata  *string    `json:"metadata,omitempty"`
	Child     *locJSON   `json:"child,omitempty"`
	Callee    *locJSON   `json:"callee,omitempty"`
	Caller    *locJSON   `json:"caller,omitempty"`
	Locations []*locJSON `json:"locations,omitempty"`
	Fallback  *locJSON   `json:"fallback,omitempty"`
}

func locToJSON(l loc.Loc) *locJSON {
	j := &locJSON{Kind: l.Kind().String(), Text: l.String()}
	switch l.Kind() {
	case loc.KindFileRange:
		f, _ := l.File()
		j.Filename = f.Filename
		j.StartLine = &f.StartLine
		if f.StartCol != loc.Unset {
			j.StartCol = &f.StartCol
		}
		j.EndLine = &f.EndLine
		if f.EndCol != loc.Unset {
			j.EndCol = &f.EndCol
		}
	case loc.KindName:
		n, _ := l.Name()
		j.Name = n.Name
		if !n.Child.IsUnknown() {
			j.Child = locToJSON(n.Child)
		}
	case loc.KindCallSite:
		cs, _ := l.CallSite()
		j.Callee = locToJSON(cs.Callee)
		j.Caller = locToJSON(cs.Caller)
	case loc.KindFused:
		f, _ := l.Fused()
		if f.HasMetadata {
			j.Metadata = &f.Metadata
		}
		j.Locations = make([]*locJSON, len(f.Locs))
		for i, e := range f.Locs {
			j.Locations[i] = locToJSON(e)
		}
	case loc.KindOpaque:
		o, _ := l.Opaque()
		j.Fallback = locToJSON(o.Fallback)
	}
	return j
}
