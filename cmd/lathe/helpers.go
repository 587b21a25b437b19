package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// operationTitle renders an operation name for human-facing output.
func operationTitle(op string) string {
	return cases.Title(language.Und).String(op)
}

// outputFor derives a per-input output path inside dir, preserving the input
// base name and optionally swapping its extension.
func outputFor(input, dir, suffix, ext string) string {
	base := filepath.Base(input)
	current := filepath.Ext(base)
	stem := strings.TrimSuffix(base, current)
	if ext == "" {
		ext = current
	} else if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if suffix != "" {
		stem += "_" + suffix
	}
	return filepath.Join(dir, stem+ext)
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	return d.Round(10 * time.Millisecond).String()
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func checkMark(ok bool) string {
	if ok {
		return "ok"
	}
	return "FAIL"
}

func formatSeconds(v float64) string {
	return fmt.Sprintf("%.2fs", v)
}
