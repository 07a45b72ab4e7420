package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trahoangdev/kureno-sub000/models"
	"github.com/trahoangdev/kureno-sub000/services"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// --- Mock Review Repository ---

type mockReviewRepo struct {
	verified  map[string]bool
	deleted   []primitive.ObjectID
	failWith  error
	callCount int
}

func newMockReviewRepo(verifiedState map[string]bool) *mockReviewRepo {
	if verifiedState == nil {
		verifiedState = make(map[string]bool)
	}
	return &mockReviewRepo{verified: verifiedState}
}

func (m *mockReviewRepo) Find(_ context.Context, _ bson.M, _, _ int) ([]*models.Review, int64, error) {
	return nil, 0, nil
}

func (m *mockReviewRepo) Delete(_ context.Context, _ primitive.ObjectID) (int64, error) {
	return 0, nil
}

func (m *mockReviewRepo) BulkSetVerified(_ context.Context, ids []primitive.ObjectID, verified bool) (int64, error) {
	m.callCount++
	if m.failWith != nil {
		return 0, m.failWith
	}
	var modified int64
	for _, id := range ids {
		hex := id.Hex()
		if current, ok := m.verified[hex]; ok && current != verified {
			m.verified[hex] = verified
			modified++
		}
	}
	return modified, nil
}

func (m *mockReviewRepo) BulkDelete(_ context.Context, ids []primitive.ObjectID) (int64, error) {
	m.callCount++
	if m.failWith != nil {
		return 0, m.failWith
	}
	var deleted int64
	for _, id := range ids {
		if _, ok := m.verified[id.Hex()]; ok {
			delete(m.verified, id.Hex())
			m.deleted = append(m.deleted, id)
			deleted++
		}
	}
	return deleted, nil
}

func TestBulkApplyRejectsEmptyIDs(t *testing.T) {
	repo := newMockReviewRepo(nil)
	svc := services.NewReviewService(repo, zap.NewNop())

	_, err := svc.BulkApply(context.Background(), services.BulkActionVerify, nil)

	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Zero(t, repo.callCount)
}

func TestBulkApplyRejectsMalformedID(t *testing.T) {
	repo := newMockReviewRepo(nil)
	svc := services.NewReviewService(repo, zap.NewNop())

	_, err := svc.BulkApply(context.Background(), services.BulkActionVerify, []string{"not-a-hex-id"})

	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Zero(t, repo.callCount)
}

// An unknown action is rejected before any storage call.
func TestBulkApplyRejectsUnknownActionWithoutEffect(t *testing.T) {
	id := primitive.NewObjectID()
	repo := newMockReviewRepo(map[string]bool{id.Hex(): false})
	svc := services.NewReviewService(repo, zap.NewNop())

	_, err := svc.BulkApply(context.Background(), "approve", []string{id.Hex()})

	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Zero(t, repo.callCount)
	assert.False(t, repo.verified[id.Hex()])
}

func TestBulkApplyVerify(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	repo := newMockReviewRepo(map[string]bool{a.Hex(): false, b.Hex(): false})
	svc := services.NewReviewService(repo, zap.NewNop())

	result, err := svc.BulkApply(context.Background(), services.BulkActionVerify, []string{a.Hex(), b.Hex()})

	require.Nil(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, int64(2), result.ModifiedCount)
	assert.Equal(t, "2 reviews verified", result.Message)
	assert.True(t, repo.verified[a.Hex()])
}

// Verifying already-verified reviews reports the true modified count,
// not the requested count.
func TestBulkApplyVerifyIsIdempotent(t *testing.T) {
	id := primitive.NewObjectID()
	repo := newMockReviewRepo(map[string]bool{id.Hex(): true})
	svc := services.NewReviewService(repo, zap.NewNop())

	result, err := svc.BulkApply(context.Background(), services.BulkActionVerify, []string{id.Hex()})

	require.Nil(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, int64(0), result.ModifiedCount)
	assert.Equal(t, "0 reviews verified", result.Message)
}

func TestBulkApplyUnverify(t *testing.T) {
	id := primitive.NewObjectID()
	repo := newMockReviewRepo(map[string]bool{id.Hex(): true})
	svc := services.NewReviewService(repo, zap.NewNop())

	result, err := svc.BulkApply(context.Background(), services.BulkActionUnverify, []string{id.Hex()})

	require.Nil(t, err)
	assert.Equal(t, int64(1), result.ModifiedCount)
	assert.False(t, repo.verified[id.Hex()])
}

func TestBulkApplyDeleteCountsOnlyExistingReviews(t *testing.T) {
	existing := primitive.NewObjectID()
	missing := primitive.NewObjectID()
	repo := newMockReviewRepo(map[string]bool{existing.Hex(): true})
	svc := services.NewReviewService(repo, zap.NewNop())

	result, err := svc.BulkApply(context.Background(), services.BulkActionDelete, []string{existing.Hex(), missing.Hex()})

	require.Nil(t, err)
	assert.Equal(t, int64(1), result.ModifiedCount)
	assert.Equal(t, "1 reviews deleted", result.Message)
	assert.Len(t, repo.deleted, 1)
}

func TestBulkApplyStorageFailureIsInternal(t *testing.T) {
	id := primitive.NewObjectID()
	repo := newMockReviewRepo(map[string]bool{id.Hex(): false})
	repo.failWith = errors.New("write concern timeout")
	svc := services.NewReviewService(repo, zap.NewNop())

	_, err := svc.BulkApply(context.Background(), services.BulkActionVerify, []string{id.Hex()})

	require.NotNil(t, err)
	assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
	assert.Equal(t, "Internal server error", err.Message)
}
