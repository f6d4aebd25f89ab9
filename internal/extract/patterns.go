package extract

// Family names a group of patterns whose matches form one list of facts.
type Family string

const (
	FamilyImports    Family = "imports"
	FamilyExports    Family = "exports"
	FamilyFunctions  Family = "functions"
	FamilyClasses    Family = "classes"
	FamilyTodos      Family = "todos"
	FamilyComplexity Family = "complexity"
)

// PatternSet holds the uncompiled expressions of every family. Expressions use
// RE2 syntax and, except for complexity tokens, capture the fact in group 1.
type PatternSet map[Family][]string

// exportListPattern is the `export { a, b as c }` form. Its capture is split
// into individual bindings.
const exportListPattern = `export\s+\{\s*([^}]+)\s*\}`

// DefaultPatterns returns a fresh copy of the built-in pattern tables.
func DefaultPatterns() PatternSet {
	return PatternSet{
		FamilyImports: {
			`import\s+(?:(?:\{[^}]+\}|\w+)\s+from\s+)?['"]([^'"]+)['"]`,
			`const\s+(?:\{[^}]+\}|\w+)\s*=\s*require\(['"]([^'"]+)['"]\)`,
			`import\(['"]([^'"]+)['"]\)`,
		},
		FamilyExports: {
			`export\s+(?:default\s+)?(?:class|function|const|let|var)\s+(\w+)`,
			`(?m)export\s+default\s+(\w+)\s*(?:;|$)`,
			exportListPattern,
			`module\.exports\s*=\s*(\w+)`,
			`exports\.(\w+)`,
		},
		FamilyFunctions: {
			`function\s+(\w+)\s*\(`,
			`const\s+(\w+)\s*=\s*(?:async\s+)?\([^)]*\)\s*=>\s*`,
			`async\s+function\s+(\w+)\s*\(`,
			`(\w+)\s*:\s*(?:async\s+)?function\s*\(`,
			`(\w+)\s*:\s*(?:async\s+)?\([^)]*\)\s*=>\s*`,
			`async\s+(\w+)\s*\(`,
		},
		FamilyClasses: {
			`class\s+(\w+)(?:\s+extends\s+\w+)?\s*\{`,
			`export\s+class\s+(\w+)(?:\s+extends\s+\w+)?\s*\{`,
			`function\s+(\w+)\s*\([^)]*\)\s*\{[^}]*this\.`,
		},
		FamilyTodos: {
			`(?i)(?://|/\*|\*|#)\s*(TODO|FIXME|HACK|BUG|XXX)(?:\s*:?\s*(.*))?$`,
		},
		FamilyComplexity: {
			`\bif\b`,
			`\belse\b`,
			`\bwhile\b`,
			`\bfor\b`,
			`\bswitch\b`,
			`\bcase\b`,
			`\bcatch\b`,
			`\btry\b`,
			`\?\s*[^:]`,
			`&&`,
			`\|\|`,
		},
	}
}
