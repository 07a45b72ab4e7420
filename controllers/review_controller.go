package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trahoangdev/kureno-sub000/repository"
	"github.com/trahoangdev/kureno-sub000/services"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// BulkReviewRequest is the payload of POST /reviews/bulk.
type BulkReviewRequest struct {
	Action    string   `json:"action"`
	ReviewIDs []string `json:"reviewIds"`
}

type ReviewController struct {
	reviewService services.ReviewService
	repo          repository.ReviewRepository
	validator     *RequestValidator
	logger        *zap.Logger
	timeout       time.Duration
}

func NewReviewController(rs services.ReviewService, repo repository.ReviewRepository, validator *RequestValidator, logger *zap.Logger) *ReviewController {
	return &ReviewController{
		reviewService: rs,
		repo:          repo,
		validator:     validator,
		logger:        logger,
		timeout:       DefaultContextTimeout,
	}
}

// ListReviews handles GET /reviews with optional product filter.
func (ctl *ReviewController) ListReviews(c *gin.Context) {
	page, perPage, err := ctl.validator.ParsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter := bson.M{}
	if productID := c.Query("productId"); productID != "" {
		oid, err := primitive.ObjectIDFromHex(productID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid productId"})
			return
		}
		filter["product_id"] = oid
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	defer cancel()

	reviews, total, err := ctl.repo.Find(ctx, filter, page, perPage)
	if err != nil {
		ctl.logger.Error("Failed to list reviews", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"total":   total,
		"page":    page,
		"perPage": perPage,
	})
}

// DeleteReview handles DELETE /reviews/:id.
func (ctl *ReviewController) DeleteReview(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	defer cancel()

	deleted, err := ctl.repo.Delete(ctx, oid)
	if err != nil {
		ctl.logger.Error("Failed to delete review", zap.String("id", oid.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if deleted == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// BulkAction handles POST /reviews/bulk.
func (ctl *ReviewController) BulkAction(c *gin.Context) {
	var req BulkReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	defer cancel()

	result, svcErr := ctl.reviewService.BulkApply(ctx, req.Action, req.ReviewIDs)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, result)
}
