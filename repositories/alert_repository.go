package repositories

import (
	"HaloBackend/models"
	"context"
)

type AlertRepository interface {
	// Create stores the alert and returns it with its id set.
	Create(ctx context.Context, alert models.Alert) (models.Alert, error)
	FindByID(ctx context.Context, id string) (models.Alert, error)
	// ListForChildren returns at most limit alerts of the given children, newest first.
	ListForChildren(ctx context.Context, childUIDs []string, limit int) ([]models.Alert, error)
	MarkAcknowledged(ctx context.Context, id string) error
}
