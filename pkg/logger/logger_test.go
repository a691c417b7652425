package logx

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestNewLevelAndService(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, Config{Service: "svc"})
	logger.Debug().Msg("hidden")
	logger.Info().Msg("visible")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 1 {
		t.Fatalf("expected one line at info level, got %d: %s", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal(lines[0], &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["service"] != "svc" || entry["message"] != "visible" {
		t.Fatalf("unexpected entry: %v", entry)
	}

	buf.Reset()
	debugLogger := New(&buf, Config{Debug: true})
	debugLogger.Debug().Msg("shown")
	if !bytes.Contains(buf.Bytes(), []byte("shown")) {
		t.Fatalf("debug entry missing: %s", buf.String())
	}
}

func TestInitSetsContextFallback(t *testing.T) {
	Init(Config{Debug: true})
	if log.Logger.GetLevel() != zerolog.DebugLevel {
		t.Fatalf("expected debug level, got %s", log.Logger.GetLevel())
	}
	if zerolog.Ctx(context.Background()) != zerolog.DefaultContextLogger {
		t.Fatal("context without logger must fall back to the global logger")
	}

	Init()
	if log.Logger.GetLevel() != zerolog.InfoLevel {
		t.Fatalf("expected info level, got %s", log.Logger.GetLevel())
	}
}
