package impl

import (
	"HaloBackend/models"
	"HaloBackend/repositories"
	"context"
	"fmt"
	"sort"
)

// maxInValues is the largest value list Firestore accepts for an "in" filter.
// Chunks are merged on created_at alone. The memory, Mongo and Postgres stores
// never repeat a created_at within a collection, so the merge keeps arrival order
// there. On Firestore two alerts committed with the same server timestamp in
// different chunks keep chunk order instead.
const maxInValues = 30

type AlertRepositoryImpl struct {
	Store repositories.RecordStore
}

func NewAlertRepository(store repositories.RecordStore) repositories.AlertRepository {
	return &AlertRepositoryImpl{Store: store}
}

func (r *AlertRepositoryImpl) Create(ctx context.Context, alert models.Alert) (models.Alert, error) {
	data := map[string]interface{}{
		"child_uid":    alert.ChildUID,
		"type":         string(alert.Type),
		"text":         alert.Text,
		"suspicious":   alert.Suspicious,
		"analysis":     analysisToDocument(alert.Analysis),
		"created_at":   repositories.ServerTimestamp,
		"acknowledged": alert.Acknowledged,
	}
	if alert.From != "" {
		data["from"] = alert.From
	}
	id, err := r.Store.Create(ctx, repositories.CollectionAlerts, data)
	if err != nil {
		return models.Alert{}, err
	}
	alert.ID = id
	return alert, nil
}

func (r *AlertRepositoryImpl) FindByID(ctx context.Context, id string) (models.Alert, error) {
	doc, err := r.Store.Get(ctx, repositories.CollectionAlerts, id)
	if err != nil {
		return models.Alert{}, err
	}
	return alertFromDocument(doc), nil
}

func (r *AlertRepositoryImpl) ListForChildren(ctx context.Context, childUIDs []string, limit int) ([]models.Alert, error) {
	var alerts []models.Alert
	for start := 0; start < len(childUIDs); start += maxInValues {
		end := start + maxInValues
		if end > len(childUIDs) {
			end = len(childUIDs)
		}
		docs, err := r.Store.Query(ctx, repositories.CollectionAlerts, repositories.Query{
			Filters:    []repositories.Filter{{Field: "child_uid", Op: repositories.OpIn, Value: childUIDs[start:end]}},
			OrderBy:    "created_at",
			Descending: true,
			Limit:      limit,
		})
		if err != nil {
			return nil, fmt.Errorf("query alerts: %w", err)
		}
		for _, doc := range docs {
			alerts = append(alerts, alertFromDocument(doc))
		}
	}

	// Each chunk is already newest first; a stable sort keeps store order for ties.
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})
	if limit > 0 && len(alerts) > limit {
		alerts = alerts[:limit]
	}
	if alerts == nil {
		alerts = []models.Alert{}
	}
	return alerts, nil
}

func (r *AlertRepositoryImpl) MarkAcknowledged(ctx context.Context, id string) error {
	return r.Store.Update(ctx, repositories.CollectionAlerts, id, map[string]interface{}{
		"acknowledged": true,
	})
}

func analysisToDocument(a models.Analysis) map[string]interface{} {
	if a.Failed() {
		return map[string]interface{}{"error": a.Error}
	}
	pipe := make([]interface{}, 0, len(a.Pipe))
	for _, ls := range a.Pipe {
		pipe = append(pipe, map[string]interface{}{"label": ls.Label, "score": ls.Score})
	}
	return map[string]interface{}{"pipe": pipe}
}

func analysisFromDocument(data map[string]interface{}) models.Analysis {
	if data == nil {
		return models.Analysis{}
	}
	if msg := getString(data, "error"); msg != "" {
		return models.Analysis{Error: msg}
	}
	var out models.Analysis
	if items, ok := data["pipe"].([]interface{}); ok {
		out.Pipe = make([]models.LabelScore, 0, len(items))
		for _, item := range items {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			out.Pipe = append(out.Pipe, models.LabelScore{
				Label: getString(m, "label"),
				Score: getFloat(m, "score"),
			})
		}
	}
	return out
}

func alertFromDocument(doc repositories.Document) models.Alert {
	return models.Alert{
		ID:           doc.ID,
		ChildUID:     getString(doc.Data, "child_uid"),
		Type:         models.AlertKind(getString(doc.Data, "type")),
		From:         getString(doc.Data, "from"),
		Text:         getString(doc.Data, "text"),
		Suspicious:   getBool(doc.Data, "suspicious"),
		Analysis:     analysisFromDocument(getMap(doc.Data, "analysis")),
		CreatedAt:    getTime(doc.Data, "created_at"),
		Acknowledged: getBool(doc.Data, "acknowledged"),
	}
}
