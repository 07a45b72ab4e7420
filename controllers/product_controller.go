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
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// CreateProductRequest mirrors the import record shape; create and
// import validate the same constraints.
type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required"`
	SKU         string   `json:"sku" validate:"required"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Quantity    int      `json:"quantity" validate:"gte=0"`
	Category    string   `json:"category" validate:"required"`
	Images      []string `json:"images" validate:"required,min=1,dive,required"`
	Description string   `json:"description"`
	Brand       string   `json:"brand"`
	IsFeatured  bool     `json:"is_featured"`
}

type ProductController struct {
	products   *repository.ProductRepository
	categories *repository.CategoryRepository
	cache      *CacheManager
	validator  *RequestValidator
	logger     *zap.Logger
	timeout    time.Duration
}

func NewProductController(products *repository.ProductRepository, categories *repository.CategoryRepository, cache *CacheManager, validator *RequestValidator, logger *zap.Logger) *ProductController {
	return &ProductController{
		products:   products,
		categories: categories,
		cache:      cache,
		validator:  validator,
		logger:     logger,
		timeout:    DefaultContextTimeout,
	}
}

// ListProducts handles GET /products with pagination and filters.
func (ctl *ProductController) ListProducts(c *gin.Context) {
	page, perPage, err := ctl.validator.ParsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter := bson.M{}
	if categoryID := c.Query("categoryId"); categoryID != "" {
		oid, err := primitive.ObjectIDFromHex(categoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid categoryId"})
			return
		}
		filter["category"] = oid
	}
	if featured := c.Query("featured"); featured != "" {
		filter["is_featured"] = featured == "true"
	}
	if q := c.Query("q"); q != "" {
		filter["name"] = bson.M{"$regex": q, "$options": "i"}
	}

	cacheKey := fmt.Sprintf("p:%d:l:%d:c:%s:f:%s:q:%s", page, perPage, c.Query("categoryId"), c.Query("featured"), c.Query("q"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	defer cancel()

	if cached, ok := ctl.cache.GetProductList(ctx, cacheKey); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(perPage)).
		SetSkip(int64((page - 1) * perPage))

	products, err := ctl.products.Find(ctx, filter, findOptions)
	if err != nil {
		ctl.logger.Error("Failed to list products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	total, err := ctl.products.Count(ctx, filter)
	if err != nil {
		ctl.logger.Error("Failed to count products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := map[string]interface{}{
		"products": products,
		"total":    total,
		"page":     page,
		"perPage":  perPage,
	}
	ctl.cache.SetProductListAsync(cacheKey, response)
	c.JSON(http.StatusOK, response)
}

// GetProduct handles GET /products/:id.
func (ctl *ProductController) GetProduct(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	defer cancel()

	product, err := ctl.products.FindByID(ctx, oid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		ctl.logger.Error("Failed to fetch product", zap.String("id", oid.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct handles POST /products.
func (ctl *ProductController) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := ctl.validator.BindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	categoryID, err := primitive.ObjectIDFromHex(req.Category)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	defer cancel()

	if _, err := ctl.categories.FindByID(ctx, categoryID); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusBadRequest, gin.H{"error": "category not found"})
			return
		}
		ctl.logger.Error("Failed to verify category", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	exists, err := ctl.products.ExistsBySKU(ctx, req.SKU)
	if err != nil {
		ctl.logger.Error("Failed to check SKU", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("SKU %q already exists", req.SKU)})
		return
	}

	now := time.Now().UTC()
	product := &models.Product{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		SKU:         req.SKU,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Category:    categoryID,
		Images:      req.Images,
		Description: req.Description,
		Brand:       req.Brand,
		IsFeatured:  req.IsFeatured,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := ctl.products.Create(ctx, product); err != nil {
		ctl.logger.Error("Failed to create product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctl.invalidateCache(ctx)
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles PUT /products/:id with a partial document.
func (ctl *ProductController) UpdateProduct(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
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

	result, err := ctl.products.Update(ctx, oid, updates)
	if err != nil {
		ctl.logger.Error("Failed to update product", zap.String("id", oid.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	ctl.invalidateCache(ctx)
	c.JSON(http.StatusOK, gin.H{"success": true, "modifiedCount": result.ModifiedCount})
}

// DeleteProduct handles DELETE /products/:id.
func (ctl *ProductController) DeleteProduct(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	defer cancel()

	result, err := ctl.products.Delete(ctx, oid)
	if err != nil {
		ctl.logger.Error("Failed to delete product", zap.String("id", oid.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	ctl.invalidateCache(ctx)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (ctl *ProductController) invalidateCache(ctx context.Context) {
	if err := ctl.cache.Invalidate(ctx); err != nil {
		ctl.logger.Error("Failed to invalidate product cache", zap.Error(err))
	}
}
