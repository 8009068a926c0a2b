package appconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestValidateFileAcceptsWellFormedConfig(t *testing.T) {
	path := writeConfigFile(t, `{
		"ollamaUrl": "http://localhost:11434",
		"iterations": 10,
		"temperature": 0.2,
		"maxTokens": 256,
		"output": "json"
	}`)

	if err := ValidateFile(path); err != nil {
		t.Fatalf("ValidateFile: %v", err)
	}
}

func TestValidateFileAcceptsEmptyObject(t *testing.T) {
	path := writeConfigFile(t, `{}`)
	if err := ValidateFile(path); err != nil {
		t.Fatalf("ValidateFile: %v", err)
	}
}

func TestValidateFileRejectsUnknownKey(t *testing.T) {
	path := writeConfigFile(t, `{"iteratoins": 10}`)
	if err := ValidateFile(path); err == nil {
		t.Fatal("expected an error for a misspelled key")
	}
}

func TestValidateFileRejectsOutOfRangeValues(t *testing.T) {
	cases := map[string]string{
		"iterations too high":  `{"iterations": 5000}`,
		"temperature too high": `{"temperature": 3.5}`,
		"max tokens too high":  `{"maxTokens": 100000}`,
		"bad output format":    `{"output": "xml"}`,
		"bad URL scheme":       `{"ollamaUrl": "ftp://localhost"}`,
	}

	for name, contents := range cases {
		path := writeConfigFile(t, contents)
		if err := ValidateFile(path); err == nil {
			t.Fatalf("%s: expected a schema error", name)
		}
	}
}

func TestValidateFileRejectsMalformedJSON(t *testing.T) {
	path := writeConfigFile(t, `{"iterations": `)
	if err := ValidateFile(path); err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}

func TestValidateFileMissingFile(t *testing.T) {
	if err := ValidateFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
