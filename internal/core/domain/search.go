package domain

// SearchCriterion is one criteria[i] entry of a GLPI search.
type SearchCriterion struct {
	Field      string
	SearchType string
	Value      string
}

// SearchQuery describes a GET search/<itemtype> call.
type SearchQuery struct {
	Criteria []SearchCriterion
	Range    string
	Fields   []string
}
