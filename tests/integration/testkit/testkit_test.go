package testkit

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// Mock service for testing
type mockService struct {
	name       string
	startProps map[string]any
	startErr   error
	stopErr    error
	started    bool
	stopped    bool
	onStop     func() // Optional callback when Stop is called
}

func (m *mockService) Start() (map[string]any, error) {
	m.started = true
	return m.startProps, m.startErr
}

func (m *mockService) Stop() error {
	m.stopped = true
	if m.onStop != nil {
		m.onStop()
	}
	return m.stopErr
}

func (m *mockService) GetName() string {
	return m.name
}

func TestNewTestEnv(t *testing.T) {
	env := NewTestEnv(&mockService{name: "test-service"})

	ctx := env.GetContext()
	if ctx == nil {
		t.Fatal("Expected non-nil context")
	}
	if props := ctx.GetProperties(); props == nil || len(props) != 0 {
		t.Errorf("Expected empty properties, got %v", props)
	}
}

func TestTestEnvStart(t *testing.T) {
	t.Run("multiple services merge properties", func(t *testing.T) {
		svc1 := &mockService{name: "svc1", startProps: map[string]any{"key1": "value1"}}
		svc2 := &mockService{name: "svc2", startProps: map[string]any{"key2": "value2"}}
		env := NewTestEnv(svc1, svc2)

		props, err := env.Start()
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !svc1.started || !svc2.started {
			t.Error("Services should have been started")
		}
		if props["key1"] != "value1" || props["key2"] != "value2" {
			t.Errorf("Unexpected properties %v", props)
		}
	})

	t.Run("start error", func(t *testing.T) {
		startErr := errors.New("start failed")
		env := NewTestEnv(&mockService{name: "failing-svc", startErr: startErr})

		_, err := env.Start()
		if !errors.Is(err, startErr) {
			t.Fatalf("Expected start error, got %v", err)
		}
		if err.Error() != "failed to start failing-svc: start failed" {
			t.Errorf("Unexpected message %q", err.Error())
		}
	})
}

func TestTestEnvStop(t *testing.T) {
	t.Run("stops in reverse order", func(t *testing.T) {
		var stopOrder []string
		svc1 := &mockService{name: "svc1", onStop: func() { stopOrder = append(stopOrder, "svc1") }}
		svc2 := &mockService{name: "svc2", onStop: func() { stopOrder = append(stopOrder, "svc2") }}

		env := NewTestEnv(svc1, svc2)
		_, _ = env.Start()
		_ = env.Stop()

		if len(stopOrder) != 2 || stopOrder[0] != "svc2" || stopOrder[1] != "svc1" {
			t.Errorf("Expected reverse order [svc2, svc1], got %v", stopOrder)
		}
	})

	t.Run("returns last error", func(t *testing.T) {
		svc1 := &mockService{name: "svc1", stopErr: errors.New("error1")}
		svc2 := &mockService{name: "svc2", stopErr: errors.New("error2")}
		env := NewTestEnv(svc1, svc2)

		err := env.Stop()
		// svc2 stops first, so svc1's error is the last one
		if err == nil || err.Error() != "error1" {
			t.Errorf("Expected 'error1', got %v", err)
		}
	})
}

func TestTestEnvContext(t *testing.T) {
	env := NewTestEnv(&mockService{name: "svc", startProps: map[string]any{"key": "value"}})
	_, _ = env.Start()
	ctx := env.GetContext()

	if val, ok := ctx.GetProperty("key"); !ok || val != "value" {
		t.Errorf("Expected 'value', got %v (found=%v)", val, ok)
	}
	if _, ok := ctx.GetProperty("nonexistent"); ok {
		t.Error("Expected property not to be found")
	}
}

func TestSourceTree(t *testing.T) {
	dir := t.TempDir()
	tree := &SourceTree{Dir: dir, Files: map[string]string{"src/a.js": "export const a = 1;\n"}}

	props, err := tree.Start()
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if props[PropRoot] != dir {
		t.Errorf("Expected root %q, got %v", dir, props[PropRoot])
	}
	content, err := os.ReadFile(filepath.Join(dir, "src", "a.js"))
	if err != nil || string(content) != "export const a = 1;\n" {
		t.Errorf("file not written: %q, %v", content, err)
	}
	if err := tree.Stop(); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
}

func TestMCPServer_StopWithoutStart(t *testing.T) {
	if err := (&MCPServer{}).Stop(); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
}

func TestNewTestFlags(t *testing.T) {
	t.Run("default options", func(t *testing.T) {
		flags := NewTestFlags(t, FlagOptions{Root: "/src"})

		root, _ := flags.GetString("root")
		if root != "/src" {
			t.Errorf("Expected root '/src', got %s", root)
		}
		output, _ := flags.GetString("output-dir")
		if output == "" {
			t.Error("Expected a temp output dir")
		}
		level, _ := flags.GetString("log-level")
		if level != "error" {
			t.Errorf("Expected log-level 'error', got %s", level)
		}
		index, _ := flags.GetBool("index")
		if index {
			t.Error("Expected index to be disabled")
		}
	})

	t.Run("custom options", func(t *testing.T) {
		flags := NewTestFlags(t, FlagOptions{Root: "/src", OutputDir: "/out", Index: true, LogLevel: "debug"})

		output, _ := flags.GetString("output-dir")
		if output != "/out" {
			t.Errorf("Expected output-dir '/out', got %s", output)
		}
		index, _ := flags.GetBool("index")
		if !index {
			t.Error("Expected index to be enabled")
		}
		level, _ := flags.GetString("log-level")
		if level != "debug" {
			t.Errorf("Expected log-level 'debug', got %s", level)
		}
	})
}
