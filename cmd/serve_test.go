package cmd

import (
	"context"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/contactstore/internal/server"
	"github.com/teemow/contactstore/internal/toolstore"
)

func newTestServerContext(t *testing.T) *server.ServerContext {
	t.Helper()
	sc := server.NewServerContext(context.Background(), toolstore.NewClient(toolstore.Config{}))
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func TestRegisterAllToolsReadOnly(t *testing.T) {
	mcpSrv := mcpserver.NewMCPServer("contactstore-test", "test",
		mcpserver.WithToolCapabilities(true))

	if err := registerAllTools(mcpSrv, newTestServerContext(t), true); err != nil {
		t.Fatalf("registerAllTools(readOnly) error: %v", err)
	}
}

func TestRegisterAllToolsWithWrites(t *testing.T) {
	mcpSrv := mcpserver.NewMCPServer("contactstore-test", "test",
		mcpserver.WithToolCapabilities(true))

	if err := registerAllTools(mcpSrv, newTestServerContext(t), false); err != nil {
		t.Fatalf("registerAllTools(writes) error: %v", err)
	}
}

func TestServeCmdFlags(t *testing.T) {
	cmd := newServeCmd()

	for flag, wantDefault := range map[string]string{
		"transport":       "stdio",
		"http-addr":       ":8080",
		"yolo":            "false",
		"debug":           "false",
		"metrics-enabled": "true",
		"metrics-addr":    server.DefaultMetricsAddr,
	} {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			t.Errorf("flag --%s not registered", flag)
			continue
		}
		if f.DefValue != wantDefault {
			t.Errorf("flag --%s default = %q, want %q", flag, f.DefValue, wantDefault)
		}
	}
}
