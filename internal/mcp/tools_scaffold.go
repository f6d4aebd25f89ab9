package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sha1n/codescope/internal/analysis"
)

// ScaffoldPreviewArgument defines scaffold preview parameters.
type ScaffoldPreviewArgument struct {
	Path string `json:"path" jsonschema:"Source file path relative to the analyzed root"`
}

// ScaffoldPreviewHandler handles the scaffold_preview MCP tool.
type ScaffoldPreviewHandler struct {
	service *analysis.Service
}

// NewScaffoldPreviewHandler creates a new scaffold preview handler.
func NewScaffoldPreviewHandler(service *analysis.Service) *ScaffoldPreviewHandler {
	return &ScaffoldPreviewHandler{service: service}
}

// Handle renders the test scaffold of one file without writing it.
func (h *ScaffoldPreviewHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ScaffoldPreviewArgument) (*mcp.CallToolResult, any, error) {
	path := strings.TrimSpace(args.Path)
	if path == "" {
		return errorResult("Path cannot be empty"), nil, nil
	}

	result, err := h.service.Preview(ctx, path)
	if err != nil {
		return errorResult("Preview failed: %s", err), nil, nil
	}
	if result.Error != "" {
		return errorResult("Preview failed: %s", result.Error), nil, nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("### %s\n", result.Target))
	sb.WriteString(fmt.Sprintf("**Source**: %s\n", result.Source))
	if len(result.Signals) > 0 {
		sb.WriteString(fmt.Sprintf("**Signals**: %s\n", strings.Join(result.Signals, ", ")))
	}
	sb.WriteString("\n```javascript\n")
	sb.WriteString(result.Content)
	if !strings.HasSuffix(result.Content, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString("```\n")

	return textResult(sb.String()), nil, nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *ScaffoldPreviewHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "scaffold_preview",
		Description: "Render the unit test scaffold for one source file without writing it. Requires a prior analysis",
	}
}

// RegisterScaffoldPreviewTool registers the scaffold preview tool with an MCP server.
func RegisterScaffoldPreviewTool(server *mcp.Server, service *analysis.Service) {
	handler := NewScaffoldPreviewHandler(service)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
