package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

const jsonDoc = `{
  "test_type": "listening",
  "title": "Library tour",
  "duration_seconds": 1800,
  "sections": [{"index": 1, "title": "Part 1", "questions": [
    {"index": 1, "type": "fill_gaps", "text_with_blanks": "Opens at ___", "answer_keys": ["nine|9"]}
  ]}]
}`

const yamlDoc = `test_type: reading
title: Coral reefs
duration_seconds: 3600
sections:
  - index: 1
    title: Passage 1
    passage_text: Reefs cover less than one percent of the ocean floor.
    questions:
      - index: 1
        type: fill_gaps
        text_with_blanks: "Reefs cover less than ___ percent"
        answer_keys: ["one|1"]
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestYAMLToJSON(t *testing.T) {
	raw, err := yamlToJSON([]byte(yamlDoc))
	if err != nil {
		t.Fatalf("yamlToJSON() error = %v", err)
	}
	var doc struct {
		TestType        string `json:"test_type"`
		DurationSeconds int    `json:"duration_seconds"`
		Sections        []struct {
			Questions []map[string]any `json:"questions"`
		} `json:"sections"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if doc.TestType != "reading" || doc.DurationSeconds != 3600 {
		t.Errorf("doc = %+v", doc)
	}
	if len(doc.Sections) != 1 || doc.Sections[0].Questions[0]["type"] != "fill_gaps" {
		t.Errorf("sections = %+v", doc.Sections)
	}

	if _, err := yamlToJSON([]byte("title: [unclosed")); err == nil {
		t.Error("yamlToJSON() accepted broken yaml")
	}
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "listening.json", jsonDoc)
	goodYAML := writeFile(t, dir, "reading.yaml", yamlDoc)

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"validate", "--log-level", "error", good, goodYAML})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("validate failed: %v\n%s", err, out.String())
	}

	var reports []fileReport
	if err := json.Unmarshal(out.Bytes(), &reports); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(reports) != 2 || reports[0].File != good || reports[1].File != goodYAML {
		t.Fatalf("reports = %+v", reports)
	}
	for _, r := range reports {
		if !r.OK || r.Report == nil || r.Report.TrackID != "" {
			t.Errorf("%s: %+v", r.File, r)
		}
	}
}

func TestValidateCommandReportsFailures(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", jsonDoc)
	bad := writeFile(t, dir, "bad.json", `{"test_type":"listening","sections":[{"questions":[{"foo":1}]}]}`)
	missing := filepath.Join(dir, "missing.json")

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"validate", "-j", "2", "--log-level", "error", good, bad, missing})
	if err := cmd.Execute(); err == nil {
		t.Fatal("validate succeeded with a broken file")
	}

	var reports []fileReport
	if err := json.Unmarshal(out.Bytes(), &reports); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(reports) != 3 {
		t.Fatalf("got %d reports, want 3", len(reports))
	}
	if !reports[0].OK {
		t.Errorf("good file rejected: %+v", reports[0])
	}
	if reports[1].OK || reports[1].Report == nil || len(reports[1].Report.Errors) == 0 {
		t.Errorf("bad file report = %+v", reports[1])
	}
	if reports[2].OK || reports[2].Report != nil || reports[2].Error == "" {
		t.Errorf("missing file report = %+v", reports[2])
	}
}
