package glpi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/lorrc/glpi-dashboard/internal/core/domain"
	apperrors "github.com/lorrc/glpi-dashboard/internal/core/errors"
)

// ListSearchOptions reads the field catalog of itemtype. A payload that is
// not a JSON object is reported as ErrCatalogMissing, with the raw text kept
// on the returned catalog for diagnostics.
func (c *Client) ListSearchOptions(ctx context.Context, itemtype string) (*domain.FieldCatalog, error) {
	endpoint := "listSearchOptions/" + itemtype

	raw, err := c.do(ctx, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return nil, err
	}
	doc, err := c.parseJSON(ctx, endpoint, raw)
	if err != nil {
		return &domain.FieldCatalog{Entity: itemtype}, fmt.Errorf("%w: %s: %w", apperrors.ErrCatalogMissing, itemtype, err)
	}
	if !doc.IsObject() {
		return &domain.FieldCatalog{Entity: itemtype, Raw: doc.Raw},
			fmt.Errorf("%w: %s returned a non-object payload", apperrors.ErrCatalogMissing, itemtype)
	}

	catalog := domain.ParseFieldCatalog(itemtype, doc)
	c.logger.DebugContext(ctx, "field catalog loaded", "itemtype", itemtype, "options", len(catalog.Options))
	return catalog, nil
}
