package scaffold

import "slices"

// Framework is the test runner flavour of generated scaffolds.
type Framework string

const (
	FrameworkJest   Framework = "jest"
	FrameworkVitest Framework = "vitest"
)

// FrameworkFor picks vitest when it is a declared dependency and jest otherwise.
func FrameworkFor(dependencies []string) Framework {
	if slices.Contains(dependencies, "vitest") {
		return FrameworkVitest
	}
	return FrameworkJest
}

// mockNamespace is the global that provides fn() and clearAllMocks().
func (f Framework) mockNamespace() string {
	if f == FrameworkVitest {
		return "vi"
	}
	return "jest"
}

func (f Framework) importLine() string {
	if f == FrameworkVitest {
		return "import { describe, test, expect, beforeEach, afterEach, vi } from 'vitest';"
	}
	return "import { jest } from '@jest/globals';"
}
