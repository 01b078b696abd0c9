package glpi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/lorrc/glpi-dashboard/internal/core/domain"
	apperrors "github.com/lorrc/glpi-dashboard/internal/core/errors"
)

// GetItem reads GET <itemtype>/<id>.
func (c *Client) GetItem(ctx context.Context, itemtype, id string) (domain.Record, error) {
	endpoint := itemtype + "/" + url.PathEscape(id)

	raw, err := c.do(ctx, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return domain.Record{}, err
	}
	doc, err := c.parseJSON(ctx, endpoint, raw)
	if err != nil {
		return domain.Record{}, err
	}
	if !doc.IsObject() {
		return domain.Record{}, fmt.Errorf("%w: %s is not an object", apperrors.ErrInvalidPayload, endpoint)
	}
	return domain.NewRecord(doc), nil
}

// SearchItems runs GET search/<itemtype>. The payload must be an object with
// a data array; a search that matched nothing comes back as an empty slice.
func (c *Client) SearchItems(ctx context.Context, itemtype string, q domain.SearchQuery) ([]domain.Record, error) {
	endpoint := "search/" + itemtype

	raw, err := c.do(ctx, http.MethodGet, endpoint, searchParams(q), nil)
	if err != nil {
		return nil, err
	}
	doc, err := c.parseJSON(ctx, endpoint, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperrors.ErrInvalidPayload, endpoint, err)
	}
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: %s is not an object", apperrors.ErrInvalidPayload, endpoint)
	}

	data := doc.Get("data")
	if !data.Exists() && doc.Get("totalcount").Exists() {
		return []domain.Record{}, nil
	}
	if !data.IsArray() {
		return nil, fmt.Errorf("%w: %s has no data list", apperrors.ErrInvalidPayload, endpoint)
	}

	records := make([]domain.Record, 0, len(data.Array()))
	for _, item := range data.Array() {
		if item.IsObject() {
			records = append(records, domain.NewRecord(item))
		}
	}
	return records, nil
}

func searchParams(q domain.SearchQuery) url.Values {
	params := url.Values{}
	for i, crit := range q.Criteria {
		prefix := fmt.Sprintf("criteria[%d]", i)
		params.Set(prefix+"[field]", crit.Field)
		params.Set(prefix+"[searchtype]", crit.SearchType)
		params.Set(prefix+"[value]", crit.Value)
	}
	if q.Range != "" {
		params.Set("range", q.Range)
	}
	if len(q.Fields) > 0 {
		params.Set("fields", strings.Join(q.Fields, ","))
	}
	return params
}
