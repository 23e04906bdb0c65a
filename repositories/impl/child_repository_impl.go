package impl

import (
	"HaloBackend/models"
	"HaloBackend/repositories"
	"context"
	"fmt"
)

type ChildRepositoryImpl struct {
	Store repositories.RecordStore
}

func NewChildRepository(store repositories.RecordStore) repositories.ChildRepository {
	return &ChildRepositoryImpl{Store: store}
}

func (r *ChildRepositoryImpl) FindByUID(ctx context.Context, uid string) (models.Child, error) {
	doc, err := r.Store.Get(ctx, repositories.CollectionChildren, uid)
	if err != nil {
		return models.Child{}, err
	}
	return childFromDocument(doc), nil
}

func (r *ChildRepositoryImpl) FindByParentUID(ctx context.Context, parentUID string) ([]models.Child, error) {
	docs, err := r.Store.Query(ctx, repositories.CollectionChildren,
		repositories.Query{}.Where("parent_uid", repositories.OpEqual, parentUID))
	if err != nil {
		return nil, fmt.Errorf("query children of %s: %w", parentUID, err)
	}
	children := make([]models.Child, 0, len(docs))
	for _, doc := range docs {
		children = append(children, childFromDocument(doc))
	}
	return children, nil
}

func (r *ChildRepositoryImpl) Save(ctx context.Context, child models.Child) error {
	contacts := child.ParentContacts
	if contacts == nil {
		contacts = []string{}
	}
	return r.Store.Set(ctx, repositories.CollectionChildren, child.UID, map[string]interface{}{
		"name":            child.Name,
		"dob":             child.DOB,
		"address":         child.Address,
		"blood_group":     child.BloodGroup,
		"parent_uid":      child.ParentUID,
		"parent_contacts": contacts,
		"created_at":      repositories.ServerTimestamp,
	})
}

func childFromDocument(doc repositories.Document) models.Child {
	return models.Child{
		UID:            doc.ID,
		Name:           getString(doc.Data, "name"),
		DOB:            getString(doc.Data, "dob"),
		Address:        getString(doc.Data, "address"),
		BloodGroup:     getString(doc.Data, "blood_group"),
		ParentUID:      getString(doc.Data, "parent_uid"),
		ParentContacts: getStringSlice(doc.Data, "parent_contacts"),
		CreatedAt:      getTime(doc.Data, "created_at"),
	}
}
