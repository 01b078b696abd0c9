package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/lorrc/glpi-dashboard/internal/core/domain"
	"github.com/lorrc/glpi-dashboard/internal/presentation"
)

var heading = color.New(color.FgCyan, color.Bold)

// printReport writes the table and, for a non-empty report, the summary.
func printReport(w io.Writer, report *domain.Report) {
	fmt.Fprintln(w)
	heading.Fprintln(w, "--- Tabela de Resultados ---")
	fmt.Fprintln(w)
	fmt.Fprint(w, presentation.MarkdownTable(report))
	if report == nil || len(report.Rows) == 0 {
		return
	}

	fmt.Fprintln(w)
	heading.Fprintln(w, "--- Sumário ---")
	fmt.Fprint(w, presentation.MarkdownSummary(report))
}
