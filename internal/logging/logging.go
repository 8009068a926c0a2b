// internal/logging/logging.go
// Package logging configures the shared process logger. Output goes to
// stderr in debug runs; an optional log file receives a copy so long
// benchmark runs can be audited afterwards.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu      sync.Mutex
	logFile *os.File
	enabled bool
)

// Init wires the standard logger. Events are dropped entirely unless debug
// is set or a log file path is configured.
func Init(logPath string, debug bool) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	enabled = debug || logPath != ""

	var writers []io.Writer
	if debug {
		writers = append(writers, os.Stderr)
	}

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		writers = append(writers, logFile)
	}

	if len(writers) == 0 {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(io.MultiWriter(writers...))
	}
	return nil
}

// Close flushes and releases the log file, if one was opened.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

// LogEvent records a formatted event line.
func LogEvent(format string, args ...any) {
	if !logActive() {
		return
	}
	log.Println(fmt.Sprintf(format, args...))
}

// LogRequest records one side of an HTTP exchange with the model server.
// direction is e.g. "BENCH->OLLAMA" or "OLLAMA->BENCH".
func LogRequest(direction, url, model string, payload any) {
	if !logActive() {
		return
	}
	log.Println(buildRequestMessage(direction, url, model, payload))
}

func logActive() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

func buildRequestMessage(direction, url, model string, payload any) string {
	dir := strings.ToUpper(strings.TrimSpace(direction))
	urlValue := strings.TrimSpace(url)
	if urlValue == "" {
		urlValue = "unknown"
	}
	parts := []string{fmt.Sprintf("[%s]", dir), fmt.Sprintf("url=%s", urlValue)}
	if model = strings.TrimSpace(model); model != "" {
		parts = append(parts, fmt.Sprintf("model=%s", model))
	}
	parts = append(parts, fmt.Sprintf("payload=%s", formatPayload(payload)))
	return strings.Join(parts, " ")
}

func formatPayload(payload any) string {
	switch v := payload.(type) {
	case nil:
		return "null"
	case string:
		if strings.TrimSpace(v) == "" {
			return `""`
		}
		return v
	case []byte:
		if len(v) == 0 {
			return "[]"
		}
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
