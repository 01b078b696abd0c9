package presentation

import (
	"embed"
	"html/template"
	"io"

	"github.com/lorrc/glpi-dashboard/internal/core/domain"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html.tmpl"))

// DashboardPage is the data of the dashboard page.
type DashboardPage struct {
	Title   string
	Summary SummaryView
	// Token authorises the page's live channel.
	Token      string
	SocketPath string
}

// ReportPage is the data of the report page.
type ReportPage struct {
	Title       string
	Strategy    string
	TableHTML   template.HTML
	SummaryHTML template.HTML // empty when no ticket was processed
}

// NewReportPage renders the table and summary of report.
func NewReportPage(title string, report *domain.Report) (ReportPage, error) {
	table, err := MarkdownToHTML(MarkdownTable(report))
	if err != nil {
		return ReportPage{}, err
	}
	page := ReportPage{Title: title, Strategy: report.Strategy, TableHTML: table}
	if len(report.Rows) == 0 {
		return page, nil
	}
	if page.SummaryHTML, err = MarkdownToHTML(MarkdownSummary(report)); err != nil {
		return ReportPage{}, err
	}
	return page, nil
}

// RenderDashboard writes the dashboard page.
func RenderDashboard(w io.Writer, page DashboardPage) error {
	return pages.ExecuteTemplate(w, "dashboard.html.tmpl", page)
}

// RenderReport writes the report page.
func RenderReport(w io.Writer, page ReportPage) error {
	return pages.ExecuteTemplate(w, "report.html.tmpl", page)
}
