package presentation

import "github.com/lorrc/glpi-dashboard/internal/core/domain"

// LevelColors are the accent colours of each level, shared by cards and the
// distribution chart.
var LevelColors = map[domain.Level]string{
	domain.LevelN1: "#2C7BE5",
	domain.LevelN2: "#F59C1A",
	domain.LevelN3: "#E91E63",
	domain.LevelN4: "#17B3A3",
}

// CardLine is one "label: count" line of a card.
type CardLine struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Card is the view model of one level card.
type Card struct {
	Title string     `json:"title"`
	Level string     `json:"level"`
	Color string     `json:"color"`
	Lines []CardLine `json:"lines"`
	Total int        `json:"total"`
}

// NewCard builds the card of one summary row. Lines follow the fixed bucket
// order and Total is their sum.
func NewCard(row domain.SummaryRow, color string) Card {
	card := Card{
		Title: "NÍVEL " + row.Level.String(),
		Level: row.Level.String(),
		Color: color,
		Lines: make([]CardLine, 0, len(domain.StatusBuckets)),
	}
	for _, bucket := range domain.StatusBuckets {
		n := row.Count(bucket)
		card.Lines = append(card.Lines, CardLine{Label: bucket.String(), Count: n})
		card.Total += n
	}
	return card
}

// Cards builds one card per summary row, in level order.
func Cards(summary domain.Summary) []Card {
	cards := make([]Card, 0, len(summary.Rows))
	for _, row := range summary.Rows {
		cards = append(cards, NewCard(row, LevelColors[row.Level]))
	}
	return cards
}
