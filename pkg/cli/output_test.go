package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestTextFormatter(t *testing.T) {
	formatter := &TextFormatter{}

	output, err := formatter.Format("test message")
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if string(output) != "test message\n" {
		t.Errorf("Format() = %q, want %q", string(output), "test message\n")
	}

	buf := &bytes.Buffer{}
	if err := formatter.FormatTo(buf, "test message"); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	if buf.String() != "test message\n" {
		t.Errorf("FormatTo() = %q", buf.String())
	}
}

func TestJSONFormatter(t *testing.T) {
	tests := []struct {
		name   string
		data   any
		indent bool
	}{
		{name: "simple string", data: "test", indent: false},
		{name: "map with indent", data: map[string]string{"key": "value"}, indent: true},
		{
			name: "struct",
			data: struct {
				Line  string `json:"line"`
				Score int    `json:"score"`
			}{Line: "ABc→[0.1,0.2,0.3,0.4]", Score: 100},
			indent: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &JSONFormatter{Indent: tt.indent}
			output, err := formatter.Format(tt.data)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}

			var result any
			if err := json.Unmarshal(output, &result); err != nil {
				t.Errorf("Format() produced invalid JSON: %v", err)
			}
		})
	}
}

func TestJSONLinesFormatter(t *testing.T) {
	formatter := NewFormatter(FormatJSONLines)
	buf := &bytes.Buffer{}

	rows := []map[string]any{
		{"line": "ABc→[0.1,0.2,0.3,0.4]", "ok": true},
		{"line": "a<b", "ok": false},
	}
	for _, row := range rows {
		if err := formatter.FormatTo(buf, row); err != nil {
			t.Fatalf("FormatTo() error = %v", err)
		}
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "→") || !strings.Contains(lines[1], "a<b") {
		t.Errorf("output should not escape non-ASCII or HTML: %q", buf.String())
	}
}

type rows [][]string

func (r rows) Rows() [][]string { return r }

func TestCSVFormatter(t *testing.T) {
	formatter := &CSVFormatter{Headers: []string{"line", "score"}}
	buf := &bytes.Buffer{}

	if err := formatter.FormatTo(buf, rows{{"ABc→[0.1,0.2,0.3,0.4]", "100"}}); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	if err := formatter.FormatTo(buf, rows{{"ABP rn02→[0.5,0.5,0.5,0.5]", "80"}}); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	want := "line,score\n\"ABc→[0.1,0.2,0.3,0.4]\",100\n\"ABP rn02→[0.5,0.5,0.5,0.5]\",80\n"
	if buf.String() != want {
		t.Errorf("FormatTo() = %q, want %q", buf.String(), want)
	}

	if _, err := formatter.Format("not rows"); err == nil {
		t.Error("Format() expected error for a value without rows")
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format OutputFormat
		want   string
	}{
		{format: FormatText, want: "*cli.TextFormatter"},
		{format: FormatJSON, want: "*cli.JSONFormatter"},
		{format: FormatJSONLines, want: "*cli.JSONFormatter"},
		{format: FormatCSV, want: "*cli.CSVFormatter"},
		{format: "unknown", want: "*cli.TextFormatter"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			got := fmt.Sprintf("%T", NewFormatter(tt.format))
			if got != tt.want {
				t.Errorf("NewFormatter(%q) type = %v, want %v", tt.format, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("jsonl", FormatText, FormatJSONLines); err != nil || f != FormatJSONLines {
		t.Errorf("ParseFormat(jsonl) = %q, %v", f, err)
	}
	if _, err := ParseFormat("xml", FormatText, FormatJSON); err == nil {
		t.Error("ParseFormat(xml) expected error")
	}
}
