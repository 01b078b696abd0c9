package services

import (
	"time"

	"github.com/lorrc/glpi-dashboard/internal/core/domain"
)

// FieldKeys names the ticket keys that carry the level and status codes.
// GLPI search results key them by search option id.
type FieldKeys struct {
	Level  string
	Status string
}

// DefaultFieldKeys are the search option ids of a stock GLPI install.
var DefaultFieldKeys = FieldKeys{Level: "9", Status: "10"}

// ClientFieldKeys are the field names GET Ticket uses for the same columns.
var ClientFieldKeys = FieldKeys{Level: "requesttypes_id", Status: "status"}

// FieldKeysFor returns the keys matching the records a fetch mode produces:
// search option ids for "server", field names for "client".
func FieldKeysFor(mode string) FieldKeys {
	if mode == "client" {
		return ClientFieldKeys
	}
	return DefaultFieldKeys
}

// withDefaults fills the keys left empty from the fetch mode.
func (k FieldKeys) withDefaults(mode string) FieldKeys {
	defaults := FieldKeysFor(mode)
	if k.Level == "" {
		k.Level = defaults.Level
	}
	if k.Status == "" {
		k.Status = defaults.Status
	}
	return k
}

// TrendDays is the length of the per-day trend window.
const TrendDays = 7

// Aggregate counts tickets per level and status bucket. The result always has
// one row per level, zero-filled when there are no tickets.
func Aggregate(tickets []domain.Record, keys FieldKeys) domain.Summary {
	summary := domain.NewSummary()
	for _, ticket := range tickets {
		levelCode, _ := ticket.Int(keys.Level)
		statusCode, _ := ticket.Int(keys.Status)
		summary.Row(domain.LevelFromCode(levelCode)).Add(domain.BucketFromStatus(statusCode))
	}
	return summary
}

// BuildTrend counts tickets opened on each of the days days ending at end,
// oldest first. Tickets outside the window or without an opening date are
// ignored.
func BuildTrend(tickets []domain.Record, end time.Time, days int) domain.Trend {
	if days <= 0 {
		return domain.Trend{}
	}

	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	points := make([]domain.TrendPoint, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		day := last.AddDate(0, 0, i-days+1)
		points[i] = domain.TrendPoint{Day: day}
		index[day.Format(domain.DateLayout)] = i
	}

	for _, ticket := range tickets {
		opened := domain.DatePart(ticket.FirstString(domain.OpeningDateKeys...))
		if i, ok := index[opened]; ok {
			points[i].Count++
		}
	}
	return domain.Trend{Points: points}
}
