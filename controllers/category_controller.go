package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trahoangdev/kureno-sub000/models"
	"github.com/trahoangdev/kureno-sub000/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Slug        string `json:"slug" validate:"required"`
	Description string `json:"description"`
	ParentID    string `json:"parent_id"`
}

type CategoryController struct {
	categories *repository.CategoryRepository
	validator  *RequestValidator
	logger     *zap.Logger
	timeout    time.Duration
}

func NewCategoryController(categories *repository.CategoryRepository, validator *RequestValidator, logger *zap.Logger) *CategoryController {
	return &CategoryController{
		categories: categories,
		validator:  validator,
		logger:     logger,
		timeout:    DefaultContextTimeout,
	}
}

// ListCategories handles GET /categories. The full tree is small enough
// to return unpaginated.
func (ctl *CategoryController) ListCategories(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	defer cancel()

	categories, err := ctl.categories.FindAll(ctx)
	if err != nil {
		ctl.logger.Error("Failed to list categories", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories, "total": len(categories)})
}

// GetCategory handles GET /categories/:id.
func (ctl *CategoryController) GetCategory(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	defer cancel()

	category, err := ctl.categories.FindByID(ctx, oid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		ctl.logger.Error("Failed to fetch category", zap.String("id", oid.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, category)
}

// CreateCategory handles POST /categories. Slugs are unique.
func (ctl *CategoryController) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := ctl.validator.BindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var parentID *primitive.ObjectID
	if req.ParentID != "" {
		oid, err := primitive.ObjectIDFromHex(req.ParentID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parent_id"})
			return
		}
		parentID = &oid
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	defer cancel()

	if parentID != nil {
		if _, err := ctl.categories.FindByID(ctx, *parentID); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusBadRequest, gin.H{"error": "parent category not found"})
				return
			}
			ctl.logger.Error("Failed to verify parent category", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	exists, err := ctl.categories.ExistsBySlug(ctx, req.Slug)
	if err != nil {
		ctl.logger.Error("Failed to check category slug", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("slug %q already exists", req.Slug)})
		return
	}

	now := time.Now().UTC()
	category := &models.Category{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		ParentID:    parentID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := ctl.categories.Create(ctx, category); err != nil {
		ctl.logger.Error("Failed to create category", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusCreated, category)
}

// UpdateCategory handles PUT /categories/:id with a partial document.
func (ctl *CategoryController) UpdateCategory(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	var updates bson.M
	if err := c.ShouldBindJSON(&updates); err != nil || len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no update fields provided"})
		return
	}
	delete(updates, "_id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	defer cancel()

	result, err := ctl.categories.Update(ctx, oid, updates)
	if err != nil {
		ctl.logger.Error("Failed to update category", zap.String("id", oid.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "modifiedCount": result.ModifiedCount})
}

// DeleteCategory handles DELETE /categories/:id.
func (ctl *CategoryController) DeleteCategory(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	defer cancel()

	result, err := ctl.categories.Delete(ctx, oid)
	if err != nil {
		ctl.logger.Error("Failed to delete category", zap.String("id", oid.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
