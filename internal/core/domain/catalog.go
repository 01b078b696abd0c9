package domain

import (
	"strings"

	"github.com/tidwall/gjson"
)

// SearchOption is one entry of a GLPI field catalog (listSearchOptions).
type SearchOption struct {
	Key      string
	Name     string
	Table    string
	Field    string
	Datatype string
}

// FieldCatalog describes which internal fields back which display labels for
// an item type.
type FieldCatalog struct {
	Entity  string
	Options []SearchOption
	Raw     string
}

// ParseFieldCatalog builds a catalog from a listSearchOptions payload. The
// "common" header and any non-object entries are skipped.
func ParseFieldCatalog(entity string, doc gjson.Result) *FieldCatalog {
	catalog := &FieldCatalog{Entity: entity, Raw: doc.Raw}
	doc.ForEach(func(key, value gjson.Result) bool {
		if key.String() == "common" || !value.IsObject() {
			return true
		}
		catalog.Options = append(catalog.Options, SearchOption{
			Key:      key.String(),
			Name:     value.Get("name").String(),
			Table:    value.Get("table").String(),
			Field:    value.Get("field").String(),
			Datatype: value.Get("datatype").String(),
		})
		return true
	})
	return catalog
}

// HasField reports whether any option is backed by field.
func (c *FieldCatalog) HasField(field string) bool {
	_, ok := c.FindField(field)
	return ok
}

// FindField returns the first candidate that backs an option.
func (c *FieldCatalog) FindField(candidates ...string) (string, bool) {
	for _, candidate := range candidates {
		for _, opt := range c.Options {
			if opt.Field == candidate {
				return opt.Field, true
			}
		}
	}
	return "", false
}

// FindOption returns the first option satisfying match.
func (c *FieldCatalog) FindOption(match func(SearchOption) bool) (SearchOption, bool) {
	for _, opt := range c.Options {
		if match(opt) {
			return opt, true
		}
	}
	return SearchOption{}, false
}

// DisplayName returns the label of the option backed by field, or fallback.
func (c *FieldCatalog) DisplayName(field, fallback string) string {
	if c == nil {
		return fallback
	}
	if opt, ok := c.FindOption(func(o SearchOption) bool { return o.Field == field }); ok && opt.Name != "" {
		return opt.Name
	}
	return fallback
}

// NameContains reports whether the option label contains s, ignoring case.
func (o SearchOption) NameContains(s string) bool {
	return strings.Contains(strings.ToLower(o.Name), strings.ToLower(s))
}
