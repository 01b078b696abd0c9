package presentation

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/lorrc/glpi-dashboard/internal/core/domain"
)

var reportHeaders = []string{"Ticket ID", "Título", "Status", "Group ID", "Nome do Grupo"}

var (
	markdownInstance goldmark.Markdown
	markdownOnce     sync.Once
)

func markdownRenderer() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownInstance = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return markdownInstance
}

// MarkdownTable renders the report table. An empty report yields a single
// explanatory line instead of a table.
func MarkdownTable(report *domain.Report) string {
	if report == nil || len(report.Rows) == 0 {
		return "Nenhum ticket processado para gerar a tabela.\n"
	}

	var b strings.Builder
	b.WriteString("| " + strings.Join(reportHeaders, " | ") + " |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, row := range report.Rows {
		cells := []string{row.TicketID, row.Title, row.Status, row.GroupID, row.GroupName}
		for i, c := range cells {
			cells[i] = escapeCell(c)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return b.String()
}

// MarkdownSummary renders the counts that follow the table.
func MarkdownSummary(report *domain.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- Total de Tickets processados: %d\n", report.Processed)
	fmt.Fprintf(&b, "- Tickets com atribuições de grupo encontradas: %d\n", report.WithGroup())
	fmt.Fprintf(&b, "- Tickets sem grupo: %d\n", report.WithoutGroup())
	return b.String()
}

// MarkdownToHTML renders Markdown with GitHub flavoured tables.
func MarkdownToHTML(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdownRenderer().Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
