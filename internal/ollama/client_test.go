package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mwiater/ollamabench/internal/appconfig"
	"github.com/mwiater/ollamabench/internal/benchmark"
)

// newTestClient points a Client at a test server with sane defaults.
func newTestClient(url string) *Client {
	cfg := appconfig.Default()
	cfg.OllamaURL = url
	cfg.TimeoutSeconds = 5
	return New(cfg)
}

func tagsHandler(names ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		type model struct {
			Name string `json:"name"`
		}
		models := make([]model, len(names))
		for i, n := range names {
			models[i] = model{Name: n}
		}
		json.NewEncoder(w).Encode(map[string]any{"models": models})
	}
}

func TestHealthCheck(t *testing.T) {
	srv := httptest.NewServer(tagsHandler("llama3.2:1b"))
	defer srv.Close()

	if err := newTestClient(srv.URL).HealthCheck(context.Background()); err != nil {
		t.Fatalf("health check: %v", err)
	}
}

func TestHealthCheckServerDown(t *testing.T) {
	srv := httptest.NewServer(tagsHandler())
	srv.Close()

	err := newTestClient(srv.URL).HealthCheck(context.Background())

	var ce *benchmark.ConnectError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConnectError, got %v", err)
	}
	if ce.URL != srv.URL {
		t.Fatalf("error URL: %q", ce.URL)
	}
}

func TestHealthCheckBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).HealthCheck(context.Background())

	var ce *benchmark.ConnectError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConnectError, got %v", err)
	}
}

func TestListModels(t *testing.T) {
	srv := httptest.NewServer(tagsHandler("llama3.2:1b", "mistral:latest"))
	defer srv.Close()

	models, err := newTestClient(srv.URL).ListModels(context.Background())
	if err != nil {
		t.Fatalf("list models: %v", err)
	}
	if len(models) != 2 || models[0] != "llama3.2:1b" || models[1] != "mistral:latest" {
		t.Fatalf("models: %v", models)
	}
}

func TestModelExists(t *testing.T) {
	srv := httptest.NewServer(tagsHandler("llama3.2:1b"))
	defer srv.Close()

	client := newTestClient(srv.URL)

	exists, err := client.ModelExists(context.Background(), "llama3.2:1b")
	if err != nil || !exists {
		t.Fatalf("expected model to exist, got (%v, %v)", exists, err)
	}

	exists, err = client.ModelExists(context.Background(), "missing:7b")
	if err != nil || exists {
		t.Fatalf("expected model to be absent, got (%v, %v)", exists, err)
	}
}

func TestGenerateDerivesMetrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path: %s", r.URL.Path)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if payload["stream"] != false {
			t.Error("request must disable streaming")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"model":                "llama3.2:1b",
			"response":             "Silicon minds race",
			"done":                 true,
			"total_duration":       int64(2_500_000_000),
			"prompt_eval_count":    10,
			"prompt_eval_duration": int64(200_000_000),
			"eval_count":           50,
			"eval_duration":        int64(2_000_000_000),
		})
	}))
	defer srv.Close()

	sample, err := newTestClient(srv.URL).Generate(context.Background(), "llama3.2:1b", "prompt")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if !sample.Success {
		t.Fatalf("sample not successful: %+v", sample)
	}
	if sample.TokensPerSecond != 25.0 {
		t.Fatalf("tokens/s: %v", sample.TokensPerSecond)
	}
	if sample.TimeToFirstTokenMs != 200 {
		t.Fatalf("ttft: %v", sample.TimeToFirstTokenMs)
	}
	if sample.PromptTokens != 10 || sample.CompletionTokens != 50 {
		t.Fatalf("token counts: %d/%d", sample.PromptTokens, sample.CompletionTokens)
	}
}

func TestGenerateMissingTimingFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"model":    "m",
			"response": "ok",
			"done":     true,
		})
	}))
	defer srv.Close()

	sample, err := newTestClient(srv.URL).Generate(context.Background(), "m", "prompt")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	// Absent server timings must yield zeroed metrics, not a division blowup.
	if !sample.Success {
		t.Fatalf("sample: %+v", sample)
	}
	if sample.TokensPerSecond != 0.0 || sample.TimeToFirstTokenMs != 0 {
		t.Fatalf("metrics should be zero: %+v", sample)
	}
}

func TestGenerateNotFoundEscalates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model 'gone:1b' not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Generate(context.Background(), "gone:1b", "prompt")

	var notFound *benchmark.ModelNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ModelNotFoundError, got %v", err)
	}
	if notFound.Model != "gone:1b" {
		t.Fatalf("model: %q", notFound.Model)
	}
}

func TestGenerateServerErrorBecomesFailedSample(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	sample, err := newTestClient(srv.URL).Generate(context.Background(), "m", "prompt")
	if err != nil {
		t.Fatalf("a server error must become a failed sample, got error: %v", err)
	}
	if sample.Success {
		t.Fatalf("sample: %+v", sample)
	}
	if sample.Error == "" {
		t.Fatal("failed sample must carry a diagnostic")
	}
}

func TestGenerateMalformedBodyBecomesFailedSample(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	sample, err := newTestClient(srv.URL).Generate(context.Background(), "m", "prompt")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if sample.Success || sample.Error == "" {
		t.Fatalf("sample: %+v", sample)
	}
}

func TestGenerateTransportFailureBecomesFailedSample(t *testing.T) {
	srv := httptest.NewServer(tagsHandler())
	srv.Close()

	sample, err := newTestClient(srv.URL).Generate(context.Background(), "m", "prompt")
	if err != nil {
		t.Fatalf("a transport failure must become a failed sample, got error: %v", err)
	}
	if sample.Success || sample.Error == "" {
		t.Fatalf("sample: %+v", sample)
	}
}

func TestGenerateCancelledContextAborts(t *testing.T) {
	srv := httptest.NewServer(tagsHandler())
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(srv.URL).Generate(ctx, "m", "prompt")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
