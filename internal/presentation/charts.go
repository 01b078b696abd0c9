package presentation

import (
	"github.com/lorrc/glpi-dashboard/internal/core/domain"
)

// TrendColor is the line colour of the per-day chart.
const TrendColor = "#5C7CFA"

const trendDayLayout = "02/01"

// ChartSpec is a chart description in the shape Chart.js consumes.
type ChartSpec struct {
	Type    string       `json:"type"`
	Title   string       `json:"title"`
	Data    ChartData    `json:"data"`
	Options ChartOptions `json:"options"`
}

type ChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

type ChartDataset struct {
	Label           string   `json:"label"`
	Data            []int    `json:"data"`
	BackgroundColor []string `json:"backgroundColor,omitempty"`
	BorderColor     string   `json:"borderColor,omitempty"`
	BorderWidth     int      `json:"borderWidth,omitempty"`
	Fill            bool     `json:"fill"`
}

type ChartOptions struct {
	Responsive bool         `json:"responsive"`
	Plugins    ChartPlugins `json:"plugins"`
}

type ChartPlugins struct {
	Legend ChartToggle `json:"legend"`
	Title  ChartTitle  `json:"title"`
}

type ChartToggle struct {
	Display bool `json:"display"`
}

type ChartTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

func newChart(kind, title string, legend bool) ChartSpec {
	return ChartSpec{
		Type:  kind,
		Title: title,
		Options: ChartOptions{
			Responsive: true,
			Plugins: ChartPlugins{
				Legend: ChartToggle{Display: legend},
				Title:  ChartTitle{Display: true, Text: title},
			},
		},
	}
}

// DistributionChart is a bar per level whose height is the level total.
func DistributionChart(summary domain.Summary) ChartSpec {
	chart := newChart("bar", "Distribuição por Nível", false)

	dataset := ChartDataset{Label: "Total"}
	for _, row := range summary.Rows {
		chart.Data.Labels = append(chart.Data.Labels, row.Level.String())
		dataset.Data = append(dataset.Data, row.Total())
		dataset.BackgroundColor = append(dataset.BackgroundColor, LevelColors[row.Level])
	}
	chart.Data.Datasets = []ChartDataset{dataset}
	return chart
}

// TrendChart is a line of tickets opened per day.
func TrendChart(trend domain.Trend) ChartSpec {
	chart := newChart("line", "Chamados por Dia", false)

	dataset := ChartDataset{Label: "Chamados", BorderColor: TrendColor, BorderWidth: 2}
	for _, p := range trend.Points {
		chart.Data.Labels = append(chart.Data.Labels, p.Day.Format(trendDayLayout))
		dataset.Data = append(dataset.Data, p.Count)
	}
	chart.Data.Datasets = []ChartDataset{dataset}
	return chart
}
