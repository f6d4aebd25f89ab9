package risk

import "github.com/sha1n/codescope/internal/domain"

// Rule is one risky-construct heuristic applied to every line.
type Rule struct {
	Name        string
	Pattern     string
	Description string
	Severity    domain.Severity
}

// DefaultRules is the built-in rule table, in evaluation order.
var DefaultRules = []Rule{
	{
		Name:        "eval",
		Pattern:     `eval\s*\(`,
		Description: "Use of eval() is dangerous",
		Severity:    domain.SeverityCritical,
	},
	{
		Name:        "inner-html",
		Pattern:     `innerHTML\s*=`,
		Description: "Assigning innerHTML may be vulnerable to XSS",
		Severity:    domain.SeverityHigh,
	},
	{
		Name:        "document-write",
		Pattern:     `document\.write\s*\(`,
		Description: "document.write may be vulnerable to injection",
		Severity:    domain.SeverityMedium,
	},
	{
		Name:        "exec",
		Pattern:     `\.exec\s*\(`,
		Description: "Executing external processes may be dangerous",
		Severity:    domain.SeverityHigh,
	},
	{
		Name:        "process-env",
		Pattern:     `process\.env\.\w+`,
		Description: "Environment variable exposed",
		Severity:    domain.SeverityLow,
	},
}

// namingPattern flags a standalone single lowercase letter.
const namingPattern = `\b[a-z]\b`

// loopMarker exempts a line from the naming check when it appears anywhere on
// it, which also covers forEach.
const loopMarker = "for"
