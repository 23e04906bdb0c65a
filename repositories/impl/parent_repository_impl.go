package impl

import (
	"HaloBackend/models"
	"HaloBackend/repositories"
	"context"
)

type ParentRepositoryImpl struct {
	Store repositories.RecordStore
}

func NewParentRepository(store repositories.RecordStore) repositories.ParentRepository {
	return &ParentRepositoryImpl{Store: store}
}

func (r *ParentRepositoryImpl) FindByUID(ctx context.Context, uid string) (models.Parent, error) {
	doc, err := r.Store.Get(ctx, repositories.CollectionParents, uid)
	if err != nil {
		return models.Parent{}, err
	}
	meta := getMap(doc.Data, "meta")
	if meta == nil {
		meta = map[string]interface{}{}
	}
	return models.Parent{
		UID:       doc.ID,
		Meta:      meta,
		CreatedAt: getTime(doc.Data, "created_at"),
	}, nil
}

func (r *ParentRepositoryImpl) Save(ctx context.Context, parent models.Parent) error {
	meta := parent.Meta
	if meta == nil {
		meta = map[string]interface{}{}
	}
	return r.Store.Set(ctx, repositories.CollectionParents, parent.UID, map[string]interface{}{
		"meta":       meta,
		"created_at": repositories.ServerTimestamp,
	})
}
