package scaffold

import "strings"

// Signals is the set of framework and role capabilities detected in a file.
type Signals uint8

const (
	SignalServer Signals = 1 << iota
	SignalUI
	SignalModule
	SignalService
	SignalMiddleware
	SignalAsync
	SignalPersistence
)

var signalNames = []struct {
	flag Signals
	name string
}{
	{SignalServer, "server"},
	{SignalUI, "ui"},
	{SignalModule, "module"},
	{SignalService, "service"},
	{SignalMiddleware, "middleware"},
	{SignalAsync, "async"},
	{SignalPersistence, "persistence"},
}

var persistenceKeywords = []string{"sequelize", "mongodb", "prisma", "database"}

// DetectSignals computes the signals of one file from keyword presence in its
// text and path.
func DetectSignals(relPath, text string) Signals {
	lower := strings.ToLower(text)
	var s Signals

	if strings.Contains(lower, "express") {
		s |= SignalServer
	}
	if strings.Contains(lower, "react") || strings.Contains(lower, "jsx") {
		s |= SignalUI
	}
	if strings.Contains(text, "export") {
		s |= SignalModule
	}
	if strings.Contains(text, "Service") || strings.Contains(strings.ToLower(relPath), "service") {
		s |= SignalService
	}
	if strings.Contains(lower, "middleware") {
		s |= SignalMiddleware
	}
	if strings.Contains(text, "async") {
		s |= SignalAsync
	}
	for _, kw := range persistenceKeywords {
		if strings.Contains(lower, kw) {
			s |= SignalPersistence
			break
		}
	}
	return s
}

// Has reports whether every flag in f is set.
func (s Signals) Has(f Signals) bool {
	return s&f == f
}

// Names returns the names of the set flags in declaration order.
func (s Signals) Names() []string {
	var names []string
	for _, sn := range signalNames {
		if s.Has(sn.flag) {
			names = append(names, sn.name)
		}
	}
	return names
}

func (s Signals) String() string {
	if s == 0 {
		return "none"
	}
	return strings.Join(s.Names(), ",")
}
