package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinariesReportsMissingAndPresent(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present-tool")
	if err := os.WriteFile(present, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	statuses := CheckBinaries([]Requirement{
		{Name: "Present", Command: present, Description: "a stub"},
		{Name: "Missing", Command: filepath.Join(binDir, "missing-tool")},
		{Name: "Unconfigured", Command: "  ", Optional: true},
	})

	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	if !statuses[0].Available {
		t.Fatalf("present binary reported unavailable: %+v", statuses[0])
	}
	if statuses[1].Available || statuses[1].Detail == "" {
		t.Fatalf("missing binary should be unavailable with detail: %+v", statuses[1])
	}
	if statuses[2].Available || statuses[2].Detail != "command not configured" {
		t.Fatalf("unconfigured command mishandled: %+v", statuses[2])
	}
	if !statuses[2].Optional {
		t.Fatal("optional flag should be carried through")
	}
}
