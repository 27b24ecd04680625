package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleExport = `[
  {"submitted_at": "2025-03-01T09:00:00Z", "role": "SME",
   "structural_score_s1": "2", "structural_score_s2": 2, "structural_score_s3": 2, "structural_score_s4": 2,
   "clarity_score_s1": 2, "clarity_score_s2": 2, "clarity_score_s3": 2, "clarity_score_s4": 2},
  {"submitted_at": 1740823200000, "role": "BUILDER",
   "structural_score_s1": 4, "structural_score_s2": 4, "structural_score_s3": 4, "structural_score_s4": 4,
   "clarity_score_s1": 4.0, "clarity_score_s2": 4, "clarity_score_s3": 4, "clarity_score_s4": 4}
]`

func TestDecodeRows(t *testing.T) {
	rows, err := decodeRows(strings.NewReader(sampleExport))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1].Scores.Sections[0].Structural != 4 {
		t.Fatalf("unexpected score: %+v", rows[1].Scores)
	}
}

func TestDecodeRows_Invalid(t *testing.T) {
	if _, err := decodeRows(strings.NewReader(`{"not": "an array"}`)); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := decodeRows(strings.NewReader(`[{"role": "SME"}]`)); err == nil {
		t.Fatalf("expected row error")
	}
}

func TestRunFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	if err := os.WriteFile(path, []byte(sampleExport), 0o600); err != nil {
		t.Fatalf("write export: %v", err)
	}

	var out bytes.Buffer
	if err := run(path, "json", &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	var report map[string]any
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("report is not json: %v\n%s", err, out.String())
	}
	windows, ok := report["windows"].([]any)
	if !ok || len(windows) != 1 {
		t.Fatalf("expected 1 window, got %v", report["windows"])
	}
	if report["trendInferenceSuppressed"] != true {
		t.Fatalf("expected suppressed trend inference")
	}

	out.Reset()
	if err := run(path, "summary", &out); err != nil {
		t.Fatalf("run summary: %v", err)
	}
	if !strings.Contains(out.String(), "Ventana 1") || !strings.Contains(out.String(), "alignment=1.00") {
		t.Fatalf("unexpected summary:\n%s", out.String())
	}

	if err := run(path, "xml", &out); err == nil {
		t.Fatalf("expected unknown format error")
	}
	if err := run(filepath.Join(t.TempDir(), "missing.json"), "json", &out); err == nil {
		t.Fatalf("expected missing file error")
	}
}
