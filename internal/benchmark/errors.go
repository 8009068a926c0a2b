// internal/benchmark/errors.go
package benchmark

import "fmt"

// ModelNotFoundError reports that a requested model is not installed on the
// server. It aborts the whole run, whether raised during pre-flight validation
// or mid-run when a model disappears between validation and use.
type ModelNotFoundError struct {
	Model string
}

func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("model %q not found (install it with: ollama pull %s)", e.Model, e.Model)
}

// ConnectError reports that the Ollama server could not be reached at all.
// Per-request transport failures during generation are recorded as failed
// Samples instead; ConnectError is reserved for run-aborting connectivity
// problems such as a failing health check.
type ConnectError struct {
	URL string
	Err error
}

func (e *ConnectError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not connect to Ollama at %s (is it running? start it with: ollama serve): %v", e.URL, e.Err)
	}
	return fmt.Sprintf("could not connect to Ollama at %s (is it running? start it with: ollama serve)", e.URL)
}

func (e *ConnectError) Unwrap() error { return e.Err }
