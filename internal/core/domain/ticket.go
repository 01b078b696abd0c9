package domain

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// NotAvailable is recorded when a value could not be resolved.
const NotAvailable = "N/A"

// Level is the support tier a ticket is counted under.
type Level string

const (
	LevelN1 Level = "N1"
	LevelN2 Level = "N2"
	LevelN3 Level = "N3"
	LevelN4 Level = "N4"
)

// Levels lists every level in display order.
var Levels = []Level{LevelN1, LevelN2, LevelN3, LevelN4}

// LevelFromCode maps the GLPI level code to a Level. Unknown codes land in N1.
func LevelFromCode(code int64) Level {
	switch code {
	case 20:
		return LevelN2
	case 30:
		return LevelN3
	case 40:
		return LevelN4
	default:
		return LevelN1
	}
}

func (l Level) String() string {
	return string(l)
}

// StatusBucket groups GLPI status codes into the four dashboard columns.
type StatusBucket string

const (
	BucketNew        StatusBucket = "Novos"
	BucketInProgress StatusBucket = "Em Atendimento"
	BucketResolved   StatusBucket = "Resolvidos"
	BucketUnresolved StatusBucket = "Não Resolvidos"
)

// StatusBuckets lists every bucket in column order.
var StatusBuckets = []StatusBucket{BucketNew, BucketInProgress, BucketResolved, BucketUnresolved}

// BucketFromStatus maps a GLPI status code to its bucket. Every code maps to
// exactly one bucket; anything outside 1..3 is unresolved.
func BucketFromStatus(code int64) StatusBucket {
	switch code {
	case 1:
		return BucketNew
	case 2:
		return BucketInProgress
	case 3:
		return BucketResolved
	default:
		return BucketUnresolved
	}
}

func (b StatusBucket) String() string {
	return string(b)
}

// TimestampKeys are tried in order to find a ticket's reference date.
var TimestampKeys = []string{"date_creation", "date", "date_mod"}

// OpeningDateKeys extends TimestampKeys with the search option id GLPI uses
// for the opening date in search results.
var OpeningDateKeys = []string{"date_creation", "date", "date_mod", "15"}

// Record is a single GLPI item (ticket, user, group or relation row) kept as
// raw JSON. GLPI keys the same data by field name or by search option id
// depending on the endpoint, so fields are looked up by key rather than decoded.
type Record struct {
	doc gjson.Result
}

// NewRecord wraps a parsed JSON object.
func NewRecord(doc gjson.Result) Record {
	return Record{doc: doc}
}

// ParseRecord parses a raw JSON object.
func ParseRecord(raw string) Record {
	return Record{doc: gjson.Parse(raw)}
}

// Field returns the value stored under key.
func (r Record) Field(key string) gjson.Result {
	return r.doc.Get(key)
}

// Has reports whether key holds a non-null value.
func (r Record) Has(key string) bool {
	v := r.doc.Get(key)
	return v.Exists() && v.Type != gjson.Null
}

// String returns the value under key as text, or "" when absent or null.
func (r Record) String(key string) string {
	if !r.Has(key) {
		return ""
	}
	return r.doc.Get(key).String()
}

// Int returns the integer under key. Numeric strings are accepted.
func (r Record) Int(key string) (int64, bool) {
	v := r.doc.Get(key)
	switch v.Type {
	case gjson.Number:
		return v.Int(), true
	case gjson.String:
		n, err := strconv.ParseInt(strings.TrimSpace(v.Str), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// ID returns the record's id. Empty, zero and null ids count as missing.
func (r Record) ID() (string, bool) {
	id := r.String("id")
	if id == "" || id == "0" {
		return "", false
	}
	return id, true
}

// FirstString returns the first non-empty value among keys.
func (r Record) FirstString(keys ...string) string {
	for _, key := range keys {
		if s := strings.TrimSpace(r.String(key)); s != "" {
			return s
		}
	}
	return ""
}

// Timestamp returns the first non-empty timestamp among TimestampKeys.
func (r Record) Timestamp() string {
	return r.FirstString(TimestampKeys...)
}

// Raw returns the underlying JSON text.
func (r Record) Raw() string {
	return r.doc.Raw
}

// IsObject reports whether the record wraps a JSON object.
func (r Record) IsObject() bool {
	return r.doc.IsObject()
}
