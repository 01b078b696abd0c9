package presentation

import "github.com/lorrc/glpi-dashboard/internal/core/domain"

// RowView is the JSON shape of one summary row.
type RowView struct {
	Level      string `json:"level"`
	New        int    `json:"novos"`
	InProgress int    `json:"em_atendimento"`
	Resolved   int    `json:"resolvidos"`
	Unresolved int    `json:"nao_resolvidos"`
	Total      int    `json:"total"`
}

// Charts groups the two dashboard charts.
type Charts struct {
	Distribution ChartSpec `json:"distribution"`
	Trend        ChartSpec `json:"trend"`
}

// SummaryView is everything the page needs to draw one date range. It is
// served by the summary endpoint and pushed over the live channel.
type SummaryView struct {
	Start  string    `json:"start"`
	End    string    `json:"end"`
	Rows   []RowView `json:"rows"`
	Cards  []Card    `json:"cards"`
	Charts Charts    `json:"charts"`
}

// NewSummaryView converts a snapshot into its view model.
func NewSummaryView(snap *domain.Snapshot) SummaryView {
	rows := make([]RowView, 0, len(snap.Summary.Rows))
	for _, r := range snap.Summary.Rows {
		rows = append(rows, RowView{
			Level:      r.Level.String(),
			New:        r.New,
			InProgress: r.InProgress,
			Resolved:   r.Resolved,
			Unresolved: r.Unresolved,
			Total:      r.Total(),
		})
	}
	return SummaryView{
		Start: snap.Start,
		End:   snap.End,
		Rows:  rows,
		Cards: Cards(snap.Summary),
		Charts: Charts{
			Distribution: DistributionChart(snap.Summary),
			Trend:        TrendChart(snap.Trend),
		},
	}
}
