package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"corefront/internal/diag"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	noteColor    = color.New(color.FgCyan)
)

// printDiagnostics renders a sorted diag.Bag one line per diagnostic,
// colorized by severity the way the teacher's diagCmd renders a report.
func printDiagnostics(out io.Writer, bag *diag.Bag) {
	bag.Sort()
	for _, d := range bag.Items() {
		fmt.Fprintf(out, "%s: %s [%s]\n", severityColor(d.Severity).Sprint(d.Severity), d.Title, d.Code)
	}
	if bag.Len() == 0 {
		fmt.Fprintln(out, "no diagnostics")
	}
}

func severityColor(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	default:
		return noteColor
	}
}
