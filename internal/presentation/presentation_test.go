package presentation

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/glpi-dashboard/internal/core/domain"
)

func sampleSummary() domain.Summary {
	summary := domain.NewSummary()
	*summary.Row(domain.LevelN1) = domain.SummaryRow{Level: domain.LevelN1, New: 3, InProgress: 2, Resolved: 1, Unresolved: 4}
	*summary.Row(domain.LevelN3) = domain.SummaryRow{Level: domain.LevelN3, Resolved: 5}
	return summary
}

func TestNewCard(t *testing.T) {
	card := NewCard(domain.SummaryRow{Level: domain.LevelN2, New: 1, InProgress: 2, Resolved: 3, Unresolved: 4}, "#F59C1A")

	assert.Equal(t, "NÍVEL N2", card.Title)
	assert.Equal(t, "#F59C1A", card.Color)
	require.Len(t, card.Lines, 4)
	assert.Equal(t, []CardLine{
		{Label: "Novos", Count: 1},
		{Label: "Em Atendimento", Count: 2},
		{Label: "Resolvidos", Count: 3},
		{Label: "Não Resolvidos", Count: 4},
	}, card.Lines)
	assert.Equal(t, 10, card.Total)
}

func TestCards_TotalsMatchLines(t *testing.T) {
	cards := Cards(sampleSummary())

	require.Len(t, cards, 4)
	for i, card := range cards {
		assert.Equal(t, "NÍVEL "+domain.Levels[i].String(), card.Title)
		assert.Equal(t, LevelColors[domain.Levels[i]], card.Color)
		sum := 0
		for _, line := range card.Lines {
			sum += line.Count
		}
		assert.Equal(t, sum, card.Total)
	}
	assert.Equal(t, 10, cards[0].Total)
	assert.Equal(t, 0, cards[1].Total)
}

func TestDistributionChart(t *testing.T) {
	chart := DistributionChart(sampleSummary())

	assert.Equal(t, "bar", chart.Type)
	assert.Equal(t, []string{"N1", "N2", "N3", "N4"}, chart.Data.Labels)
	require.Len(t, chart.Data.Datasets, 1)
	assert.Equal(t, []int{10, 0, 5, 0}, chart.Data.Datasets[0].Data)
	assert.Equal(t, []string{"#2C7BE5", "#F59C1A", "#E91E63", "#17B3A3"}, chart.Data.Datasets[0].BackgroundColor)
	assert.False(t, chart.Options.Plugins.Legend.Display)
}

func TestTrendChart(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	chart := TrendChart(domain.Trend{Points: []domain.TrendPoint{
		{Day: day, Count: 2},
		{Day: day.AddDate(0, 0, 1), Count: 0},
	}})

	assert.Equal(t, "line", chart.Type)
	assert.Equal(t, "Chamados por Dia", chart.Title)
	assert.Equal(t, []string{"01/05", "02/05"}, chart.Data.Labels)
	assert.Equal(t, []int{2, 0}, chart.Data.Datasets[0].Data)
	assert.Equal(t, TrendColor, chart.Data.Datasets[0].BorderColor)
}

func TestNewSummaryView_JSON(t *testing.T) {
	view := NewSummaryView(&domain.Snapshot{Start: "2024-01-01", End: "2024-01-31", Summary: sampleSummary()})

	raw, err := json.Marshal(view)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "2024-01-01", decoded["start"])
	rows := decoded["rows"].([]any)
	require.Len(t, rows, 4)
	first := rows[0].(map[string]any)
	assert.Equal(t, "N1", first["level"])
	assert.EqualValues(t, 10, first["total"])
	assert.Contains(t, decoded, "charts")
	assert.Contains(t, decoded, "cards")
}

func TestMarkdownTable(t *testing.T) {
	report := &domain.Report{
		Processed: 2,
		Rows: []domain.ReportRow{
			{TicketID: "1", Title: "Impressora | térreo", Status: "2", GroupID: "5", GroupName: "Suporte"},
			{TicketID: "2", Title: "Rede", Status: "1", GroupID: "N/A", GroupName: "N/A"},
		},
	}

	table := MarkdownTable(report)
	lines := strings.Split(strings.TrimSpace(table), "\n")

	require.Len(t, lines, 4)
	assert.Equal(t, "| Ticket ID | Título | Status | Group ID | Nome do Grupo |", lines[0])
	assert.Equal(t, "|---|---|---|---|---|", lines[1])
	assert.Equal(t, `| 1 | Impressora \| térreo | 2 | 5 | Suporte |`, lines[2])
	assert.Equal(t, "| 2 | Rede | 1 | N/A | N/A |", lines[3])

	summary := MarkdownSummary(report)
	assert.Contains(t, summary, "Total de Tickets processados: 2")
	assert.Contains(t, summary, "Tickets com atribuições de grupo encontradas: 1")
	assert.Contains(t, summary, "Tickets sem grupo: 1")
}

func TestMarkdownTable_Empty(t *testing.T) {
	assert.Equal(t, "Nenhum ticket processado para gerar a tabela.\n", MarkdownTable(&domain.Report{}))
}

func TestMarkdownToHTML(t *testing.T) {
	html, err := MarkdownToHTML("| a | b |\n|---|---|\n| <script>x</script> | 2 |\n")
	require.NoError(t, err)

	out := string(html)
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>2</td>")
	assert.NotContains(t, out, "<script>")
}

func TestRenderDashboard(t *testing.T) {
	view := NewSummaryView(&domain.Snapshot{Start: "2024-01-01", End: "2024-01-31", Summary: sampleSummary()})

	var buf bytes.Buffer
	err := RenderDashboard(&buf, DashboardPage{
		Title:      "Painel Casa Civil TI",
		Summary:    view,
		Token:      "tok",
		SocketPath: "/api/v1/ws",
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<h1>Painel Casa Civil TI</h1>")
	assert.Contains(t, out, `value="2024-01-31"`)
	assert.Contains(t, out, "NÍVEL N4")
	assert.Contains(t, out, `id="distribution-chart"`)
	assert.Contains(t, out, `id="trend-chart"`)
	assert.Contains(t, out, "SET_DATE_RANGE")
}

func TestRenderReport(t *testing.T) {
	page, err := NewReportPage("Relatório", &domain.Report{
		Strategy:  "direct",
		Processed: 1,
		Rows:      []domain.ReportRow{{TicketID: "9", GroupID: "N/A", GroupName: "N/A"}},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderReport(&buf, page))

	out := buf.String()
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<code>direct</code>")
	assert.Contains(t, out, `<div class="summary"><ul>`)
	assert.Contains(t, out, "<li>Total de Tickets processados: 1</li>")
	assert.Contains(t, out, "<li>Tickets sem grupo: 1</li>")
}

func TestRenderReport_EmptyHasNoSummary(t *testing.T) {
	page, err := NewReportPage("Relatório", &domain.Report{Strategy: "direct"})
	require.NoError(t, err)
	assert.Empty(t, page.SummaryHTML)

	var buf bytes.Buffer
	require.NoError(t, RenderReport(&buf, page))
	assert.Contains(t, buf.String(), "Nenhum ticket processado")
	assert.NotContains(t, buf.String(), "Tickets sem grupo")
}
