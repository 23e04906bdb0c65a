package impl

import (
	"HaloBackend/repositories"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// pgTimeLayout is fixed width so that stored timestamps compare correctly as text.
const pgTimeLayout = "2006-01-02T15:04:05.000000000Z"

// documentRow holds one document of any collection. Seq is the arrival order.
type documentRow struct {
	Seq        int64  `gorm:"primaryKey;autoIncrement"`
	Collection string `gorm:"size:64;not null;uniqueIndex:idx_documents_collection_doc"`
	DocID      string `gorm:"column:doc_id;size:128;not null;uniqueIndex:idx_documents_collection_doc"`
	Data       string `gorm:"type:jsonb;not null"`
	UpdatedAt  time.Time
}

func (documentRow) TableName() string {
	return "documents"
}

// PostgresStore is the RecordStore backed by a single jsonb table in PostgreSQL.
type PostgresStore struct {
	DB    *gorm.DB
	clock *repositories.MonotonicClock
}

// OpenPostgres connects with gorm and migrates the documents table.
func OpenPostgres(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := db.AutoMigrate(&documentRow{}); err != nil {
		return nil, fmt.Errorf("postgres migrate: %w", err)
	}
	return NewPostgresStore(db, nil), nil
}

func NewPostgresStore(db *gorm.DB, clock *repositories.MonotonicClock) *PostgresStore {
	if clock == nil {
		clock = repositories.NewMonotonicClock(nil)
	}
	return &PostgresStore{DB: db, clock: clock}
}

func (s *PostgresStore) Create(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	id := uuid.NewString()
	row, err := s.newRow(collection, id, data)
	if err != nil {
		return "", err
	}
	if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return "", fmt.Errorf("postgres insert %s: %w", collection, err)
	}
	return id, nil
}

func (s *PostgresStore) Set(ctx context.Context, collection, id string, data map[string]interface{}) error {
	row, err := s.newRow(collection, id, data)
	if err != nil {
		return err
	}
	// Delete and re-insert so a replaced document counts as a new arrival.
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection = ? AND doc_id = ?", collection, id).Delete(&documentRow{}).Error; err != nil {
			return err
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		return fmt.Errorf("postgres set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) (repositories.Document, error) {
	var row documentRow
	err := s.DB.WithContext(ctx).Where("collection = ? AND doc_id = ?", collection, id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repositories.Document{}, repositories.ErrNotFound
	}
	if err != nil {
		return repositories.Document{}, fmt.Errorf("postgres get %s/%s: %w", collection, id, err)
	}
	return rowDocument(row)
}

func (s *PostgresStore) Query(ctx context.Context, collection string, q repositories.Query) ([]repositories.Document, error) {
	tx := s.DB.WithContext(ctx).Where("collection = ?", collection)
	for _, f := range q.Filters {
		sql, args, err := jsonFilterClause(f)
		if err != nil {
			return nil, err
		}
		tx = tx.Where(sql, args...)
	}
	if q.OrderBy != "" {
		dir := "ASC"
		if q.Descending {
			dir = "DESC"
		}
		tx = tx.Where("data -> ? IS NOT NULL", q.OrderBy).
			Order(clause.OrderBy{Expression: clause.Expr{
				SQL:                "data -> ? " + dir + ", seq " + dir,
				Vars:               []interface{}{q.OrderBy},
				WithoutParentheses: true,
			}})
	} else {
		tx = tx.Order("seq ASC")
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var rows []documentRow
	if err := tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("postgres query %s: %w", collection, err)
	}
	docs := make([]repositories.Document, 0, len(rows))
	for _, row := range rows {
		doc, err := rowDocument(row)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *PostgresStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	patch, err := encodeDocument(s.clock.ResolveTimestamps(collection, fields))
	if err != nil {
		return err
	}
	res := s.DB.WithContext(ctx).Model(&documentRow{}).
		Where("collection = ? AND doc_id = ?", collection, id).
		Updates(map[string]interface{}{
			"data":       gorm.Expr("data || ?::jsonb", patch),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("postgres update %s/%s: %w", collection, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *PostgresStore) newRow(collection, id string, data map[string]interface{}) (documentRow, error) {
	encoded, err := encodeDocument(s.clock.ResolveTimestamps(collection, data))
	if err != nil {
		return documentRow{}, err
	}
	return documentRow{Collection: collection, DocID: id, Data: encoded, UpdatedAt: time.Now().UTC()}, nil
}

func rowDocument(row documentRow) (repositories.Document, error) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(row.Data), &data); err != nil {
		return repositories.Document{}, fmt.Errorf("decode %s/%s: %w", row.Collection, row.DocID, err)
	}
	return repositories.Document{ID: row.DocID, Data: decodeTimes(data).(map[string]interface{})}, nil
}

func encodeDocument(data map[string]interface{}) (string, error) {
	b, err := json.Marshal(encodeTimes(data))
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	return string(b), nil
}

// jsonFilterClause renders one filter against the jsonb column. Equality uses
// containment so numbers, strings and bools compare with jsonb semantics.
func jsonFilterClause(f repositories.Filter) (string, []interface{}, error) {
	switch f.Op {
	case repositories.OpEqual:
		patch, err := json.Marshal(map[string]interface{}{f.Field: encodeTimes(f.Value)})
		if err != nil {
			return "", nil, err
		}
		return "data @> ?::jsonb", []interface{}{string(patch)}, nil
	case repositories.OpIn:
		values := inValues(f.Value)
		if len(values) == 0 {
			return "FALSE", nil, nil
		}
		parts := make([]string, 0, len(values))
		args := make([]interface{}, 0, len(values))
		for _, v := range values {
			patch, err := json.Marshal(map[string]interface{}{f.Field: encodeTimes(v)})
			if err != nil {
				return "", nil, err
			}
			parts = append(parts, "data @> ?::jsonb")
			args = append(args, string(patch))
		}
		return "(" + strings.Join(parts, " OR ") + ")", args, nil
	case repositories.OpGreaterOrEqual:
		if n, ok := toFloat(f.Value); ok {
			return "(data ->> ?)::numeric >= ?", []interface{}{f.Field, n}, nil
		}
		switch v := encodeTimes(f.Value).(type) {
		case string:
			return "data ->> ? >= ?", []interface{}{f.Field, v}, nil
		}
	}
	return "", nil, fmt.Errorf("unsupported filter %s %s %T", f.Field, f.Op, f.Value)
}

func encodeTimes(v interface{}) interface{} {
	switch val := v.(type) {
	case time.Time:
		return val.UTC().Format(pgTimeLayout)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = encodeTimes(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = encodeTimes(item)
		}
		return out
	}
	return v
}

func decodeTimes(v interface{}) interface{} {
	switch val := v.(type) {
	case string:
		if len(val) == len(pgTimeLayout) {
			if t, err := time.Parse(pgTimeLayout, val); err == nil {
				return t
			}
		}
		return val
	case map[string]interface{}:
		for k, item := range val {
			val[k] = decodeTimes(item)
		}
		return val
	case []interface{}:
		for i, item := range val {
			val[i] = decodeTimes(item)
		}
		return val
	}
	return v
}
