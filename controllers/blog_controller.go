package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trahoangdev/kureno-sub000/middleware"
	"github.com/trahoangdev/kureno-sub000/models"
	"github.com/trahoangdev/kureno-sub000/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type CreateBlogPostRequest struct {
	Title      string   `json:"title" validate:"required"`
	Slug       string   `json:"slug" validate:"required"`
	Content    string   `json:"content" validate:"required"`
	Excerpt    string   `json:"excerpt"`
	Tags       []string `json:"tags"`
	CoverImage string   `json:"cover_image"`
	Published  bool     `json:"published"`
}

type BlogController struct {
	blog      *repository.BlogRepository
	validator *RequestValidator
	logger    *zap.Logger
	timeout   time.Duration
}

func NewBlogController(blog *repository.BlogRepository, validator *RequestValidator, logger *zap.Logger) *BlogController {
	return &BlogController{
		blog:      blog,
		validator: validator,
		logger:    logger,
		timeout:   DefaultContextTimeout,
	}
}

// ListPosts handles GET /blog.
func (ctl *BlogController) ListPosts(c *gin.Context) {
	page, perPage, err := ctl.validator.ParsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter := bson.M{}
	if published := c.Query("published"); published != "" {
		filter["published"] = published == "true"
	}
	if tag := c.Query("tag"); tag != "" {
		filter["tags"] = tag
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	defer cancel()

	posts, total, err := ctl.blog.Find(ctx, filter, page, perPage)
	if err != nil {
		ctl.logger.Error("Failed to list blog posts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts, "total": total, "page": page, "perPage": perPage})
}

// GetPost handles GET /blog/:slug.
func (ctl *BlogController) GetPost(c *gin.Context) {
	slug := c.Param("slug")

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	defer cancel()

	post, err := ctl.blog.FindBySlug(ctx, slug)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		ctl.logger.Error("Failed to fetch blog post", zap.String("slug", slug), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, post)
}

// CreatePost handles POST /blog. The authenticated admin becomes the author.
func (ctl *BlogController) CreatePost(c *gin.Context) {
	var req CreateBlogPostRequest
	if err := ctl.validator.BindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	authorID, err := primitive.ObjectIDFromHex(c.GetString(middleware.UserIDKey))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid author identity"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	defer cancel()

	exists, err := ctl.blog.ExistsBySlug(ctx, req.Slug)
	if err != nil {
		ctl.logger.Error("Failed to check post slug", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("slug %q already exists", req.Slug)})
		return
	}

	now := time.Now().UTC()
	post := &models.BlogPost{
		ID:         primitive.NewObjectID(),
		Title:      req.Title,
		Slug:       req.Slug,
		Content:    req.Content,
		Excerpt:    req.Excerpt,
		Author:     authorID,
		Tags:       req.Tags,
		CoverImage: req.CoverImage,
		Published:  req.Published,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := ctl.blog.Create(ctx, post); err != nil {
		ctl.logger.Error("Failed to create blog post", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusCreated, post)
}

// UpdatePost handles PUT /blog/:id with a partial document.
func (ctl *BlogController) UpdatePost(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	var updates bson.M
	if err := c.ShouldBindJSON(&updates); err != nil || len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no update fields provided"})
		return
	}
	delete(updates, "_id")
	delete(updates, "author")

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	defer cancel()

	result, err := ctl.blog.Update(ctx, oid, updates)
	if err != nil {
		ctl.logger.Error("Failed to update blog post", zap.String("id", oid.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "modifiedCount": result.ModifiedCount})
}

// DeletePost handles DELETE /blog/:id.
func (ctl *BlogController) DeletePost(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	defer cancel()

	result, err := ctl.blog.Delete(ctx, oid)
	if err != nil {
		ctl.logger.Error("Failed to delete blog post", zap.String("id", oid.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
