package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trahoangdev/kureno-sub000/middleware"
	"github.com/trahoangdev/kureno-sub000/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type UserController struct {
	users     *repository.UserRepository
	validator *RequestValidator
	logger    *zap.Logger
	timeout   time.Duration
}

func NewUserController(users *repository.UserRepository, validator *RequestValidator, logger *zap.Logger) *UserController {
	return &UserController{
		users:     users,
		validator: validator,
		logger:    logger,
		timeout:   DefaultContextTimeout,
	}
}

// ListUsers handles GET /users with optional role filter.
func (ctl *UserController) ListUsers(c *gin.Context) {
	page, perPage, err := ctl.validator.ParsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter := bson.M{}
	if role := c.Query("role"); role != "" {
		filter["role"] = role
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	defer cancel()

	users, total, err := ctl.users.Find(ctx, filter, page, perPage)
	if err != nil {
		ctl.logger.Error("Failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "total": total, "page": page, "perPage": perPage})
}

// GetUser handles GET /users/:id.
func (ctl *UserController) GetUser(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	defer cancel()

	user, err := ctl.users.FindByID(ctx, oid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		ctl.logger.Error("Failed to fetch user", zap.String("id", oid.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /users/:id. Admins cannot delete their own
// account.
func (ctl *UserController) DeleteUser(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if oid.Hex() == c.GetString(middleware.UserIDKey) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete your own account"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	defer cancel()

	result, err := ctl.users.Delete(ctx, oid)
	if err != nil {
		ctl.logger.Error("Failed to delete user", zap.String("id", oid.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	ctl.logger.Info("User deleted",
		zap.String("user", oid.Hex()),
		zap.String("actor", middleware.Actor(c)))
	c.JSON(http.StatusOK, gin.H{"success": true})
}
