// internal/cli/root_test.go
package ollamabench

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// execute runs the root command with args and returns combined output plus the
// command error.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmdUnknownCommand(t *testing.T) {
	out, err := execute(t, "nonexistent")
	if err == nil {
		t.Fatal("expected an error for an unknown command")
	}
	if !strings.Contains(err.Error(), `unknown command "nonexistent" for "ollamabench"`) {
		t.Fatalf("error: %v\noutput: %s", err, out)
	}
}

func TestRunCmdRequiresModelArgument(t *testing.T) {
	_, err := execute(t, "run")
	if err == nil {
		t.Fatal("expected an error when no model is given")
	}
	if !strings.Contains(err.Error(), "requires at least 1 arg") {
		t.Fatalf("error: %v", err)
	}
}

func TestRunCmdRejectsInvalidModelName(t *testing.T) {
	_, err := execute(t, "run", "-q", "bad model name")
	if err == nil {
		t.Fatal("expected an error for an invalid model name")
	}
	if !strings.Contains(err.Error(), "invalid model name") {
		t.Fatalf("error: %v", err)
	}
}

func TestRunCmdReportsUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := execute(t, "run", "-q", "--ollama-url", url, "llama3.2:1b")
	if err == nil {
		t.Fatal("expected an error for an unreachable server")
	}
	if !strings.Contains(err.Error(), "could not connect to Ollama") {
		t.Fatalf("error: %v", err)
	}
}

func TestRunCmdRejectsUnknownModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]string{{"name": "installed:1b"}},
		})
	}))
	defer srv.Close()

	_, err := execute(t, "run", "-q", "--ollama-url", srv.URL, "missing:7b")
	if err == nil {
		t.Fatal("expected an error for a model that is not installed")
	}
	if !strings.Contains(err.Error(), `model "missing:7b" not found`) {
		t.Fatalf("error: %v", err)
	}
	if !strings.Contains(err.Error(), "ollama pull missing:7b") {
		t.Fatalf("error must include the pull hint: %v", err)
	}
}

func TestModelsCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]string{{"name": "llama3.2:1b"}},
		})
	}))
	defer srv.Close()

	if _, err := execute(t, "models", "--ollama-url", srv.URL); err != nil {
		t.Fatalf("models command: %v", err)
	}
}
