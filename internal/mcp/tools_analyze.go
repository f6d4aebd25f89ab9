package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sha1n/codescope/internal/analysis"
	"github.com/sha1n/codescope/internal/domain"
)

// AnalyzeArgument defines analyze parameters.
type AnalyzeArgument struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of improvements to list (default 5)"`
}

// AnalyzeHandler handles the analyze_project MCP tool.
type AnalyzeHandler struct {
	service *analysis.Service
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(service *analysis.Service) *AnalyzeHandler {
	return &AnalyzeHandler{service: service}
}

// Handle runs the analyze pass and returns a summary.
func (h *AnalyzeHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args AnalyzeArgument) (*mcp.CallToolResult, any, error) {
	r, err := h.service.Analyze(ctx)
	if err != nil {
		return errorResult("Analysis failed: %s", err), nil, nil
	}
	return textResult(formatAnalysis(r, limitOrDefault(args.Limit))), nil, nil
}

func formatAnalysis(r *domain.AnalysisReport, limit int) string {
	var sb strings.Builder
	s := r.Summary
	sb.WriteString(fmt.Sprintf("Analyzed %d files (%d lines) in %s\n\n", s.TotalFiles, s.TotalLines, r.Root))
	sb.WriteString(fmt.Sprintf("**Modules**: %d | **Functions**: %d | **Classes**: %d | **TODOs**: %d\n",
		s.TotalModules, s.TotalFunctions, s.TotalClasses, s.TotalTodos))
	sb.WriteString(fmt.Sprintf("**Average complexity**: %.1f\n", s.AvgComplexity))
	sb.WriteString(fmt.Sprintf("**Test coverage estimate**: %.1f%%\n", r.Coverage.TestCoverage))
	sb.WriteString(fmt.Sprintf("**Documentation coverage**: %.1f%%\n", r.Coverage.DocumentationCoverage))
	if len(r.Dependencies) > 0 {
		sb.WriteString(fmt.Sprintf("**Dependencies**: %s\n", strings.Join(r.Dependencies, ", ")))
	}
	sb.WriteString("\n")
	writeSuggestions(&sb, "Improvements", r.Improvements, limit)
	return sb.String()
}

// GetToolDefinition returns the MCP tool definition.
func (h *AnalyzeHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "analyze_project",
		Description: "Scan the configured source tree and summarize size, structure, coverage estimates and suggested improvements",
	}
}

// RegisterAnalyzeTool registers the analyze tool with an MCP server.
func RegisterAnalyzeTool(server *mcp.Server, service *analysis.Service) {
	handler := NewAnalyzeHandler(service)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
