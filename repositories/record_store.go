package repositories

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get and Update when the document does not exist.
var ErrNotFound = errors.New("document not found")

// Collection names.
const (
	CollectionChildren      = "children"
	CollectionParents       = "parents"
	CollectionAppUsage      = "app_usage"
	CollectionJournals      = "journals"
	CollectionReminders     = "reminders"
	CollectionMessages      = "messages"
	CollectionReportedTexts = "reported_texts"
	CollectionAlerts        = "alerts"
	CollectionLocations     = "locations"
	CollectionSOSRequests   = "sos_requests"
)

// Op is a query filter operator.
type Op string

const (
	OpEqual          Op = "=="
	OpGreaterOrEqual Op = ">="
	OpIn             Op = "in"
)

// Filter restricts a query to documents whose top-level Field satisfies Op against Value.
// For OpIn, Value must be a []string or []interface{}.
type Filter struct {
	Field string
	Op    Op
	Value interface{}
}

// Query describes a filtered, ordered and limited read of one collection.
// Limit <= 0 means no limit.
type Query struct {
	Filters    []Filter
	OrderBy    string
	Descending bool
	Limit      int
}

// Where appends an equality or comparison filter.
func (q Query) Where(field string, op Op, value interface{}) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Op: op, Value: value})
	return q
}

// Document is a stored record and its id.
type Document struct {
	ID   string
	Data map[string]interface{}
}

type serverTimestamp struct{}

// ServerTimestamp is a placeholder field value that the store replaces with its own
// timestamp on write. Timestamps assigned this way are strictly increasing per collection.
var ServerTimestamp interface{} = serverTimestamp{}

// IsServerTimestamp reports whether v is the ServerTimestamp placeholder.
func IsServerTimestamp(v interface{}) bool {
	_, ok := v.(serverTimestamp)
	return ok
}

// RecordStore is the only path to the document database.
type RecordStore interface {
	// Create appends a document with a store-assigned id.
	Create(ctx context.Context, collection string, data map[string]interface{}) (string, error)
	// Set creates or fully replaces the document with the given id.
	Set(ctx context.Context, collection, id string, data map[string]interface{}) error
	Get(ctx context.Context, collection, id string) (Document, error)
	Query(ctx context.Context, collection string, q Query) ([]Document, error)
	// Update merges fields into an existing document.
	Update(ctx context.Context, collection, id string, fields map[string]interface{}) error
	Close() error
}
