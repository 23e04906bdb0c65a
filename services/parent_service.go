package services

import (
	"HaloBackend/apperrors"
	"HaloBackend/models"
	"HaloBackend/repositories"
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

type ParentService struct {
	ParentRepo    repositories.ParentRepository
	TelemetryRepo repositories.TelemetryRepository
	logger        *logrus.Entry
}

func NewParentService(parentRepo repositories.ParentRepository, telemetryRepo repositories.TelemetryRepository, logger *logrus.Logger) *ParentService {
	return &ParentService{
		ParentRepo:    parentRepo,
		TelemetryRepo: telemetryRepo,
		logger:        logger.WithField("component", "parent"),
	}
}

// RegisterParent stores the whole registration body as the parent's metadata,
// replacing whatever was there before.
func (s *ParentService) RegisterParent(ctx context.Context, meta map[string]interface{}) error {
	uid, _ := meta["uid"].(string)
	if uid == "" {
		return apperrors.BadRequest("uid required")
	}
	if err := s.ParentRepo.Save(ctx, models.Parent{UID: uid, Meta: meta}); err != nil {
		return apperrors.Internal("Failed to register parent", err)
	}
	s.logger.WithFields(logrus.Fields{
		"uid":       uid,
		"has_token": models.Parent{Meta: meta}.FCMToken() != "",
	}).Info("parent registered")
	return nil
}

// FindChildLocation returns the newest location sample of the child.
func (s *ParentService) FindChildLocation(ctx context.Context, childUID string) (models.LocationSample, error) {
	loc, err := s.TelemetryRepo.LatestLocation(ctx, childUID)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.LocationSample{}, apperrors.NotFound("No location found for child")
	}
	if err != nil {
		return models.LocationSample{}, apperrors.Internal("Failed to load location", err)
	}
	return loc, nil
}
