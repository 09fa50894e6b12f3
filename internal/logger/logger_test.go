package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewProductionJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false, "")

	log.Debug("hidden")
	log.Info("build finished", "posts", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("production logger emitted debug line: %q", out)
	}

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, out)
	}
	if line["msg"] != "build finished" || line["posts"] != float64(3) {
		t.Errorf("line = %v", line)
	}
}

func TestNewDevelopmentText(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, true, "")

	log.Debug("visible", "slug", "hello")

	out := buf.String()
	if !strings.Contains(out, "msg=visible") || !strings.Contains(out, "slug=hello") {
		t.Errorf("development output = %q", out)
	}
}
