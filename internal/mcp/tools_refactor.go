package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sha1n/codescope/internal/analysis"
	"github.com/sha1n/codescope/internal/domain"
)

// defaultLimit is the number of suggestions listed when no limit is given.
const defaultLimit = 5

// RefactorArgument defines refactor parameters.
type RefactorArgument struct {
	Limit       int    `json:"limit,omitempty" jsonschema:"Maximum number of suggestions to list (default 5)"`
	MinSeverity string `json:"min_severity,omitempty" jsonschema:"Only list suggestions at or above this severity (low, medium, high, critical)"`
	Refresh     bool   `json:"refresh,omitempty" jsonschema:"Re-run the refactor pass even when suggestions since the last analysis are cached"`
}

// RefactorHandler handles the refactor_suggestions MCP tool.
type RefactorHandler struct {
	service *analysis.Service
}

// NewRefactorHandler creates a new refactor handler.
func NewRefactorHandler(service *analysis.Service) *RefactorHandler {
	return &RefactorHandler{service: service}
}

// Handle lists the ranked suggestions. The refactor pass runs when nothing is
// cached since the last analysis or when a refresh is requested.
func (h *RefactorHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args RefactorArgument) (*mcp.CallToolResult, any, error) {
	minSeverity := domain.Severity(strings.ToLower(strings.TrimSpace(args.MinSeverity)))
	if minSeverity != "" && !minSeverity.Valid() {
		return errorResult("Invalid severity: %s", args.MinSeverity), nil, nil
	}

	suggestions := h.service.Suggestions
	if args.Refresh {
		suggestions = h.service.Refactor
	}
	r, err := suggestions(ctx)
	if err != nil {
		return errorResult("Refactor failed: %s", err), nil, nil
	}

	listed := r.Suggestions
	if minSeverity != "" {
		listed = atLeast(listed, minSeverity)
	}

	var sb strings.Builder
	hist := r.Summary
	sb.WriteString(fmt.Sprintf("%d suggestions (critical: %d, high: %d, medium: %d, low: %d)\n",
		r.TotalSuggestions, hist.Critical, hist.High, hist.Medium, hist.Low))
	if len(r.Duplicates) > 0 {
		sb.WriteString(fmt.Sprintf("%d duplicated lines detected\n", len(r.Duplicates)))
	}
	sb.WriteString("\n")
	writeSuggestions(&sb, "Suggestions", listed, limitOrDefault(args.Limit))

	return textResult(sb.String()), nil, nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *RefactorHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "refactor_suggestions",
		Description: "Produce ranked refactoring suggestions for the analyzed tree. Requires a prior analysis",
	}
}

// RegisterRefactorTool registers the refactor tool with an MCP server.
func RegisterRefactorTool(server *mcp.Server, service *analysis.Service) {
	handler := NewRefactorHandler(service)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}

func atLeast(suggestions []domain.Suggestion, floor domain.Severity) []domain.Suggestion {
	out := make([]domain.Suggestion, 0, len(suggestions))
	for _, s := range suggestions {
		if s.Severity.Rank() >= floor.Rank() {
			out = append(out, s)
		}
	}
	return out
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	return limit
}

// writeSuggestions lists up to limit suggestions under a heading.
func writeSuggestions(sb *strings.Builder, heading string, suggestions []domain.Suggestion, limit int) {
	if len(suggestions) == 0 {
		sb.WriteString(fmt.Sprintf("No %s\n", strings.ToLower(heading)))
		return
	}

	sb.WriteString(fmt.Sprintf("## %s\n\n", heading))
	shown := min(limit, len(suggestions))
	for i, s := range suggestions[:shown] {
		sb.WriteString(fmt.Sprintf("### %d. [%s] %s:%d\n", i+1, s.Severity, s.File, s.Line))
		sb.WriteString(fmt.Sprintf("**Type**: %s\n\n", s.Category))
		sb.WriteString(s.Description)
		sb.WriteString("\n")
		if s.Suggested != "" {
			sb.WriteString(fmt.Sprintf("**Suggested**: %s\n", s.Suggested))
		}
		sb.WriteString("\n")
	}
	if rest := len(suggestions) - shown; rest > 0 {
		sb.WriteString(fmt.Sprintf("... and %d more\n", rest))
	}
}
