// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/challenge-solver/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 8
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRule outputs a human-readable summary of the interpreted rule.
func (p *Printer) PrintRule(rule types.Rule) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Kind:    %s\n", rule.Kind))
	if rule.HasTarget {
		sb.WriteString(fmt.Sprintf("Target:  %d\n", rule.Target))
	}
	if rule.NormalizedText != "" {
		sb.WriteString(fmt.Sprintf("Text:    %s", rule.NormalizedText))
	}

	p.printBox("INTERPRETED RULE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResults outputs the per-image analysis results.
func (p *Printer) PrintResults(results []types.PerImageResult) {
	if len(results) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Images analyzed: %d\n\n", len(results)))

	count := min(len(results), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := results[i]
		sb.WriteString(fmt.Sprintf("#%d  shapes: %-3d metric: %d\n", r.Index, r.TotalShapes, r.Metric))
	}
	if len(results) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(results)-maxItemsToShow))
	}

	p.printBox("IMAGE ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDecision outputs the final decision.
func (p *Printer) PrintDecision(decision types.Decision) {
	var sb strings.Builder

	if !decision.Decided() {
		sb.WriteString("No candidate satisfied the rule")
	} else {
		sb.WriteString(fmt.Sprintf("Selected image: %d\n", *decision.SelectedIndex))
		if decision.Approximate {
			sb.WriteString("Match:          approximate (nearest count)")
		} else {
			sb.WriteString("Match:          exact")
		}
	}

	p.printBox("DECISION", strings.TrimSuffix(sb.String(), "\n"))
}
