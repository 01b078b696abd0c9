package glpi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/lorrc/glpi-dashboard/internal/core/domain"
	apperrors "github.com/lorrc/glpi-dashboard/internal/core/errors"
)

type betweenCriterion struct {
	Field      string    `json:"field"`
	SearchType string    `json:"searchtype"`
	Value      [2]string `json:"value"`
}

type ticketSearchBody struct {
	Criteria []betweenCriterion `json:"criteria"`
	Range    string             `json:"range"`
}

// FetchTickets returns the tickets of [start, end]. Empty bounds fall back to
// the configured defaults; a bound still empty after that is open. A non-JSON
// payload is logged and yields no tickets.
func (c *Client) FetchTickets(ctx context.Context, start, end string) ([]domain.Record, error) {
	if start == "" {
		start = c.cfg.DefaultStart
	}
	if end == "" {
		end = c.cfg.DefaultEnd
	}

	var (
		records []domain.Record
		err     error
	)
	// The between criterion needs both bounds; anything less is filtered locally.
	if c.cfg.FetchMode == FetchModeServer && start != "" && end != "" {
		records, err = c.searchByDate(ctx, start, end)
	} else {
		records, err = c.fetchAllAndFilter(ctx, start, end)
	}
	if errors.Is(err, apperrors.ErrNotJSON) {
		return nil, nil
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return nil, apperrors.NewUpstreamError(err,
			fmt.Sprintf("GLPI answered %d to the ticket query", statusErr.StatusCode))
	}
	if err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "tickets fetched",
		"mode", c.cfg.FetchMode,
		"start", start,
		"end", end,
		"count", len(records),
	)
	return records, nil
}

// searchByDate lets GLPI filter on the opening date.
func (c *Client) searchByDate(ctx context.Context, start, end string) ([]domain.Record, error) {
	body := ticketSearchBody{
		Criteria: []betweenCriterion{{
			Field:      c.cfg.DateField,
			SearchType: "between",
			Value:      [2]string{start, end},
		}},
		Range: c.pageRange(),
	}

	raw, err := c.do(ctx, http.MethodPost, "search/Ticket", nil, body)
	if err != nil {
		return nil, err
	}
	doc, err := c.parseJSON(ctx, "search/Ticket", raw)
	if err != nil {
		return nil, err
	}
	return c.unwrapRecords(ctx, doc), nil
}

// fetchAllAndFilter pulls one page of tickets and filters it locally. With
// both bounds empty every ticket is kept.
func (c *Client) fetchAllAndFilter(ctx context.Context, start, end string) ([]domain.Record, error) {
	query := url.Values{}
	query.Set("range", c.pageRange())

	raw, err := c.do(ctx, http.MethodGet, "Ticket", query, nil)
	if err != nil {
		return nil, err
	}
	doc, err := c.parseJSON(ctx, "Ticket", raw)
	if err != nil {
		return nil, err
	}

	all := c.unwrapRecords(ctx, doc)
	if start == "" && end == "" {
		return all, nil
	}
	filtered := make([]domain.Record, 0, len(all))
	for _, rec := range all {
		if domain.WithinDateRange(rec.Timestamp(), start, end) {
			filtered = append(filtered, rec)
		}
	}
	return filtered, nil
}

// unwrapRecords accepts either a bare array or an object envelope with a
// data array.
func (c *Client) unwrapRecords(ctx context.Context, doc gjson.Result) []domain.Record {
	list := doc
	if doc.IsObject() {
		list = doc.Get("data")
	}
	if !list.IsArray() {
		if tc := doc.Get("totalcount"); tc.Exists() && tc.Int() == 0 {
			return nil
		}
		c.logger.WarnContext(ctx, "unexpected ticket payload shape", "raw", truncateString(doc.Raw, maxLoggedBody))
		return nil
	}

	items := list.Array()
	records := make([]domain.Record, 0, len(items))
	for _, item := range items {
		if item.IsObject() {
			records = append(records, domain.NewRecord(item))
		}
	}
	return records
}

func (c *Client) pageRange() string {
	return fmt.Sprintf("0-%d", c.cfg.PageSize-1)
}
