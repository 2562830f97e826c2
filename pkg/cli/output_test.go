package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

var testTable = &Table{
	Headers: []string{"id", "statuses"},
	Rows: [][]string{
		{"o-1", "3"},
		{"o-2", "10"},
	},
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"csv", FormatCSV, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOutputFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseOutputFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewFormatter(FormatText).FormatTo(&buf, testTable); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	want := "id   statuses\no-1  3\no-2  10\n"
	if buf.String() != want {
		t.Errorf("FormatTo() = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	if err := NewFormatter(FormatText).FormatTo(&buf, "done"); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	if buf.String() != "done\n" {
		t.Errorf("FormatTo() = %q", buf.String())
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewFormatter(FormatJSON).FormatTo(&buf, testTable); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	var got []map[string]string
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != 2 || got[1]["id"] != "o-2" || got[1]["statuses"] != "10" {
		t.Errorf("records = %v", got)
	}
}

func TestCSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewFormatter(FormatCSV).FormatTo(&buf, testTable); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	if want := "id,statuses\no-1,3\no-2,10\n"; buf.String() != want {
		t.Errorf("FormatTo() = %q, want %q", buf.String(), want)
	}

	if err := NewFormatter(FormatCSV).FormatTo(&buf, map[string]int{"a": 1}); err == nil {
		t.Error("expected error for non-tabular data")
	} else if !strings.Contains(err.Error(), "tabular") {
		t.Errorf("error = %v", err)
	}
}
