package testkit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/pflag"

	"github.com/sha1n/codescope/internal/app"
)

// Property names published by the services in this package.
const (
	PropRoot    = "root"
	PropSession = "session"
)

// Service represents a test service that can be started and stopped
type Service interface {
	Start() (map[string]any, error)
	Stop() error
	GetName() string
}

// TestEnvContext provides access to properties collected during environment startup
type TestEnvContext interface {
	GetProperties() map[string]any
	GetProperty(name string) (any, bool)
}

// TestEnv manages the lifecycle of test services
type TestEnv interface {
	Start() (map[string]any, error)
	Stop() error
	GetContext() TestEnvContext
}

type testEnvContextImpl struct {
	properties map[string]any
}

func (c *testEnvContextImpl) GetProperties() map[string]any {
	return c.properties
}

func (c *testEnvContextImpl) GetProperty(name string) (any, bool) {
	val, ok := c.properties[name]
	return val, ok
}

type testEnvImpl struct {
	services []Service
	context  *testEnvContextImpl
}

// NewTestEnv creates a new test environment with the given services
func NewTestEnv(services ...Service) TestEnv {
	return &testEnvImpl{
		services: services,
		context:  &testEnvContextImpl{properties: make(map[string]any)},
	}
}

func (e *testEnvImpl) Start() (map[string]any, error) {
	for _, s := range e.services {
		props, err := s.Start()
		if err != nil {
			return nil, fmt.Errorf("failed to start %s: %w", s.GetName(), err)
		}
		for k, v := range props {
			e.context.properties[k] = v
		}
	}
	return e.context.properties, nil
}

func (e *testEnvImpl) Stop() error {
	var lastErr error
	// Stop in reverse order
	for i := len(e.services) - 1; i >= 0; i-- {
		if err := e.services[i].Stop(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (e *testEnvImpl) GetContext() TestEnvContext {
	return e.context
}

// SourceTree writes a fixed set of files under Dir on start and publishes
// Dir as the "root" property.
type SourceTree struct {
	Dir   string
	Files map[string]string
}

func (s *SourceTree) Start() (map[string]any, error) {
	for rel, content := range s.Files {
		full := filepath.Join(s.Dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			return nil, err
		}
	}
	return map[string]any{PropRoot: s.Dir}, nil
}

func (s *SourceTree) Stop() error {
	return nil
}

func (s *SourceTree) GetName() string {
	return "source-tree"
}

// MCPServer runs the serve command over an in-memory transport and publishes
// a connected client session as the "session" property.
type MCPServer struct {
	Flags *pflag.FlagSet

	cancel  context.CancelFunc
	done    chan error
	session *mcp.ClientSession
}

func (s *MCPServer) Start() (map[string]any, error) {
	ctx, cancel := context.WithCancel(context.Background())
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	params := app.DefaultRunParams()
	params.CustomIOTransport = serverTransport

	s.cancel = cancel
	s.done = make(chan error, 1)
	go func() {
		s.done <- app.RunWithDeps(ctx, params, s.Flags, "test")
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "testkit", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		cancel()
		return nil, err
	}
	s.session = session
	return map[string]any{PropSession: session}, nil
}

func (s *MCPServer) Stop() error {
	if s.cancel == nil {
		return nil
	}
	var closeErr error
	if s.session != nil {
		closeErr = s.session.Close()
	}
	s.cancel()

	select {
	case err := <-s.done:
		if err != nil && !errors.Is(err, context.Canceled) {
			return errors.Join(closeErr, err)
		}
	case <-time.After(5 * time.Second):
		return errors.New("timed out waiting for the MCP server to stop")
	}
	return closeErr
}

func (s *MCPServer) GetName() string {
	return "mcp-server"
}

// FlagOptions configures NewTestFlags
type FlagOptions struct {
	Root      string // Required
	OutputDir string // Uses a temp dir if empty
	CacheDir  string // Uses a temp dir if empty
	Index     bool
	LogLevel  string // Defaults to "error"
}

// NewTestFlags creates a configured pflag.FlagSet for testing
func NewTestFlags(t testing.TB, opts FlagOptions) *pflag.FlagSet {
	t.Helper()

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	app.RegisterFlags(flags)

	if opts.OutputDir == "" {
		opts.OutputDir = t.TempDir()
	}
	if opts.CacheDir == "" {
		opts.CacheDir = t.TempDir()
	}
	if opts.LogLevel == "" {
		opts.LogLevel = "error"
	}

	_ = flags.Set("root", opts.Root)
	_ = flags.Set("output-dir", opts.OutputDir)
	_ = flags.Set("repo-cache-dir", opts.CacheDir)
	_ = flags.Set("index", strconv.FormatBool(opts.Index))
	_ = flags.Set("log-level", opts.LogLevel)

	return flags
}
