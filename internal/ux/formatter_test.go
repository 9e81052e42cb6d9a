package ux

import (
	"bytes"
	"strings"
	"testing"
)

type testData struct {
	Site    string `json:"site" yaml:"site"`
	Version string `json:"version" yaml:"version"`
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr bool
	}{
		{"json format", "json", false},
		{"yaml format", "yaml", false},
		{"unknown format", "xml", true},
		{"text is rendered by the printer, not here", "text", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFormatter(tt.format, nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewFormatter(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
		})
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	formatter, err := NewFormatter("json", &buf)
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}

	data := testData{Site: "erp.localhost", Version: "v16.7.3"}
	if err := formatter.Format(data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, `"site": "erp.localhost"`) {
		t.Errorf("JSON output missing expected field: %s", output)
	}
	if !strings.Contains(output, `"version": "v16.7.3"`) {
		t.Errorf("JSON output missing expected field: %s", output)
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	formatter, err := NewFormatter("yaml", &buf)
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}

	data := testData{Site: "erp.localhost", Version: "v16.7.3"}
	if err := formatter.Format(data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "site: erp.localhost") {
		t.Errorf("YAML output missing expected field: %s", output)
	}
	if !strings.Contains(output, "version: v16.7.3") {
		t.Errorf("YAML output missing expected field: %s", output)
	}
}

func TestUnknownFormatNamesTheChoices(t *testing.T) {
	_, err := NewFormatter("xml", nil)
	if err == nil {
		t.Fatal("NewFormatter(xml) succeeded")
	}
	if !strings.Contains(err.Error(), "text, json, yaml") {
		t.Errorf("error should list the supported formats, got %q", err)
	}
}
