package services

import (
	"context"
	"fmt"

	"github.com/trahoangdev/kureno-sub000/models"
	"github.com/trahoangdev/kureno-sub000/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Bulk review actions.
const (
	BulkActionVerify   = "verify"
	BulkActionUnverify = "unverify"
	BulkActionDelete   = "delete"
)

// ReviewService applies one moderation action across a set of review
// IDs in a single batched storage operation.
type ReviewService interface {
	BulkApply(ctx context.Context, action string, ids []string) (*models.BulkActionResult, *ServiceError)
}

type reviewServiceImpl struct {
	repo   repository.ReviewRepository
	logger *zap.Logger
}

func NewReviewService(repo repository.ReviewRepository, logger *zap.Logger) ReviewService {
	return &reviewServiceImpl{repo: repo, logger: logger}
}

func (s *reviewServiceImpl) BulkApply(ctx context.Context, action string, ids []string) (*models.BulkActionResult, *ServiceError) {
	if len(ids) == 0 {
		return nil, badRequest("reviewIds must not be empty")
	}

	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, badRequest(fmt.Sprintf("invalid review id %q", id))
		}
		objectIDs = append(objectIDs, oid)
	}

	var count int64
	var err error
	var message string

	// The action is validated before any storage call so an unknown
	// action never has partial effect.
	switch action {
	case BulkActionVerify:
		count, err = s.repo.BulkSetVerified(ctx, objectIDs, true)
		message = fmt.Sprintf("%d reviews verified", count)
	case BulkActionUnverify:
		count, err = s.repo.BulkSetVerified(ctx, objectIDs, false)
		message = fmt.Sprintf("%d reviews unverified", count)
	case BulkActionDelete:
		count, err = s.repo.BulkDelete(ctx, objectIDs)
		message = fmt.Sprintf("%d reviews deleted", count)
	default:
		return nil, badRequest(fmt.Sprintf("unsupported bulk action %q", action))
	}

	if err != nil {
		s.logger.Error("Bulk review action failed",
			zap.String("action", action),
			zap.Int("requested", len(ids)),
			zap.Error(err),
		)
		return nil, storageError()
	}

	s.logger.Info("Bulk review action applied",
		zap.String("action", action),
		zap.Int("requested", len(ids)),
		zap.Int64("affected", count),
	)
	return &models.BulkActionResult{
		Success:       true,
		ModifiedCount: count,
		Message:       message,
	}, nil
}
