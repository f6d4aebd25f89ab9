package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sha1n/codescope/internal/analysis"
	"github.com/sha1n/codescope/internal/index"
)

// SearchArgument defines search parameters.
type SearchArgument struct {
	Query    string `json:"query,omitempty" jsonschema:"Full-text query over suggestion descriptions, code and rationale"`
	Type     string `json:"type,omitempty" jsonschema:"Filter by suggestion type (e.g. security, duplication, naming)"`
	Severity string `json:"severity,omitempty" jsonschema:"Filter by severity (low, medium, high, critical)"`
	File     string `json:"file,omitempty" jsonschema:"Filter by file path relative to the analyzed root"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum number of results"`
}

// SearchHandler handles the search_suggestions MCP tool.
type SearchHandler struct {
	service *analysis.Service
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(service *analysis.Service) *SearchHandler {
	return &SearchHandler{service: service}
}

// Handle searches the latest suggestions and returns formatted results.
func (h *SearchHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SearchArgument) (*mcp.CallToolResult, any, error) {
	q := index.Query{
		Text:     strings.TrimSpace(args.Query),
		Category: strings.TrimSpace(args.Type),
		Severity: strings.TrimSpace(args.Severity),
		File:     strings.TrimSpace(args.File),
		Limit:    args.Limit,
	}

	results, err := h.service.Search(ctx, q)
	if errors.Is(err, index.ErrEmptyQuery) {
		return errorResult("Query cannot be empty"), nil, nil
	}
	if err != nil {
		return errorResult("Search failed: %s", err), nil, nil
	}

	return textResult(results.Markdown(q.Label())), nil, nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *SearchHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "search_suggestions",
		Description: "Search the latest refactoring suggestions using full-text search and exact filters",
	}
}

// RegisterSearchTool registers the search tool with an MCP server.
func RegisterSearchTool(server *mcp.Server, service *analysis.Service) {
	handler := NewSearchHandler(service)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
