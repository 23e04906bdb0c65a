package repositories

import (
	"HaloBackend/models"
	"context"
)

type ParentRepository interface {
	FindByUID(ctx context.Context, uid string) (models.Parent, error)
	// Save replaces the parent's metadata wholesale.
	Save(ctx context.Context, parent models.Parent) error
}
