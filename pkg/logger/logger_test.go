package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}
}

func TestLoggerWriterAndLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithWriter(&buf), WithLevel("warn")); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = SetLevelString("info") }()

	ctx := context.Background()
	Get().Info(ctx, "hidden")
	Get().Warn(ctx, "shown", String("player", "Away_19"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "player=Away_19") {
		t.Errorf("warn message missing: %q", out)
	}
	if !strings.Contains(out, "source=") {
		t.Errorf("caller source missing: %q", out)
	}
}

func TestLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithWriter(&buf), WithJSON(true)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Named("analysis").Info(context.Background(), "space created",
		Float64("m2", 41.5),
		Bool("difference", true),
		Duration("took", 1500*time.Microsecond),
	)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	group, ok := line["analysis"].(map[string]any)
	if !ok {
		t.Fatalf("named group missing: %v", line)
	}
	if group["m2"] != 41.5 || group["difference"] != true || group["took"] != 1.5 {
		t.Errorf("unexpected fields: %v", group)
	}
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	if err := Init(WithLevel("verbose")); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestSetLevelString(t *testing.T) {
	for _, lvl := range []string{"debug", "INFO", "", "warning", "error"} {
		if err := SetLevelString(lvl); err != nil {
			t.Errorf("level %q rejected: %v", lvl, err)
		}
	}
	_ = SetLevelString("info")
}
