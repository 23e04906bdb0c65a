package repositories

import (
	"HaloBackend/models"
	"context"
)

type ChildRepository interface {
	FindByUID(ctx context.Context, uid string) (models.Child, error)
	FindByParentUID(ctx context.Context, parentUID string) ([]models.Child, error)
	Save(ctx context.Context, child models.Child) error
}
