package services

import (
	"HaloBackend/models"
	"HaloBackend/repositories"
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// recipient is the result of the child -> parent -> token lookup chain.
type recipient struct {
	Child    models.Child
	Parent   models.Parent
	Found    bool
	FCMToken string
}

// resolveRecipient follows child -> parent with two sequential reads. Any miss or
// store error ends the chain silently; the caller treats that as "nobody to notify".
func resolveRecipient(ctx context.Context, children repositories.ChildRepository, parents repositories.ParentRepository, childUID string, log *logrus.Entry) recipient {
	var out recipient

	child, err := children.FindByUID(ctx, childUID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			log.WithError(err).WithField("child_uid", childUID).Warn("child lookup failed")
		}
		return out
	}
	out.Child = child
	if child.ParentUID == "" {
		return out
	}

	parent, err := parents.FindByUID(ctx, child.ParentUID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			log.WithError(err).WithField("parent_uid", child.ParentUID).Warn("parent lookup failed")
		}
		return out
	}
	out.Parent = parent
	out.Found = true
	out.FCMToken = parent.FCMToken()
	return out
}
