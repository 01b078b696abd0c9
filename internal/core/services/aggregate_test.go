package services_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/lorrc/glpi-dashboard/internal/core/domain"
	"github.com/lorrc/glpi-dashboard/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ticket(raw string) domain.Record {
	return domain.ParseRecord(raw)
}

func TestAggregate(t *testing.T) {
	t.Run("empty input is zero-filled", func(t *testing.T) {
		summary := services.Aggregate(nil, services.DefaultFieldKeys)

		require.Len(t, summary.Rows, 4)
		for i, level := range domain.Levels {
			assert.Equal(t, level, summary.Rows[i].Level)
			assert.Zero(t, summary.Rows[i].Total())
		}
	})

	t.Run("counts by level and bucket", func(t *testing.T) {
		tickets := []domain.Record{
			ticket(`{"9":20,"10":2}`),
			ticket(`{"9":20,"10":2}`),
			ticket(`{"9":30,"10":1}`),
			ticket(`{"9":40,"10":3}`),
			ticket(`{"9":10,"10":6}`),
		}

		summary := services.Aggregate(tickets, services.DefaultFieldKeys)

		assert.Equal(t, 2, summary.Row(domain.LevelN2).InProgress)
		assert.Equal(t, 1, summary.Row(domain.LevelN3).New)
		assert.Equal(t, 1, summary.Row(domain.LevelN4).Resolved)
		assert.Equal(t, 1, summary.Row(domain.LevelN1).Unresolved)
	})

	t.Run("unknown or missing level falls into N1", func(t *testing.T) {
		tickets := []domain.Record{
			ticket(`{"9":99,"10":1}`),
			ticket(`{"10":1}`),
			ticket(`{"9":"abc","10":1}`),
			ticket(`{"9":null,"10":1}`),
		}

		summary := services.Aggregate(tickets, services.DefaultFieldKeys)

		assert.Equal(t, 4, summary.Row(domain.LevelN1).New)
	})

	t.Run("numeric strings are accepted", func(t *testing.T) {
		summary := services.Aggregate([]domain.Record{ticket(`{"9":"30","10":"3"}`)}, services.DefaultFieldKeys)
		assert.Equal(t, 1, summary.Row(domain.LevelN3).Resolved)
	})

	t.Run("missing status is unresolved", func(t *testing.T) {
		summary := services.Aggregate([]domain.Record{ticket(`{"9":20}`)}, services.DefaultFieldKeys)
		assert.Equal(t, 1, summary.Row(domain.LevelN2).Unresolved)
	})

	t.Run("custom field keys", func(t *testing.T) {
		keys := services.FieldKeys{Level: "level", Status: "status"}
		summary := services.Aggregate([]domain.Record{ticket(`{"level":40,"status":2}`)}, keys)
		assert.Equal(t, 1, summary.Row(domain.LevelN4).InProgress)
	})
}

func TestAggregate_ClientModeRecords(t *testing.T) {
	// GET Ticket keys records by field name rather than search option id.
	tickets := []domain.Record{
		ticket(`{"id":1,"status":1,"requesttypes_id":20}`),
		ticket(`{"id":2,"status":2,"requesttypes_id":30}`),
		ticket(`{"id":3,"status":3}`),
	}

	summary := services.Aggregate(tickets, services.FieldKeysFor("client"))

	assert.Equal(t, 1, summary.Row(domain.LevelN2).New)
	assert.Equal(t, 1, summary.Row(domain.LevelN3).InProgress)
	assert.Equal(t, 1, summary.Row(domain.LevelN1).Resolved)
	assert.Zero(t, summary.Row(domain.LevelN1).Unresolved)
}

func TestFieldKeysFor(t *testing.T) {
	assert.Equal(t, services.DefaultFieldKeys, services.FieldKeysFor("server"))
	assert.Equal(t, services.DefaultFieldKeys, services.FieldKeysFor(""))
	assert.Equal(t, services.FieldKeys{Level: "requesttypes_id", Status: "status"}, services.FieldKeysFor("client"))
}

func TestAggregate_Conservation(t *testing.T) {
	var tickets []domain.Record
	for i := 0; i < 200; i++ {
		tickets = append(tickets, ticket(fmt.Sprintf(`{"9":%d,"10":%d}`, (i%7)*10, i%9)))
	}

	summary := services.Aggregate(tickets, services.DefaultFieldKeys)

	total := 0
	for _, row := range summary.Rows {
		assert.Equal(t, row.New+row.InProgress+row.Resolved+row.Unresolved, row.Total())
		total += row.Total()
	}
	assert.Equal(t, len(tickets), total)
}

func TestBuildTrend(t *testing.T) {
	end := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	tickets := []domain.Record{
		ticket(`{"date_creation":"2024-03-10 09:00:00"}`),
		ticket(`{"date_creation":"2024-03-10 18:00:00"}`),
		ticket(`{"date":"2024-03-04 12:00:00"}`),
		ticket(`{"15":"2024-03-07 12:00:00"}`),
		ticket(`{"date_creation":"2024-03-03 23:59:59"}`),
		ticket(`{"date_creation":"2024-03-11 00:00:00"}`),
		ticket(`{"id":1}`),
	}

	trend := services.BuildTrend(tickets, end, services.TrendDays)

	require.Len(t, trend.Points, 7)
	assert.Equal(t, "2024-03-04", trend.Points[0].Day.Format(domain.DateLayout))
	assert.Equal(t, "2024-03-10", trend.Points[6].Day.Format(domain.DateLayout))

	counts := make([]int, 0, 7)
	for _, p := range trend.Points {
		counts = append(counts, p.Count)
	}
	assert.Equal(t, []int{1, 0, 0, 1, 0, 0, 2}, counts)
}

func TestBuildTrend_NoDays(t *testing.T) {
	trend := services.BuildTrend(nil, time.Now(), 0)
	assert.Empty(t, trend.Points)
}
