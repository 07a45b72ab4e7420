package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Import record shapes share the constraints of the corresponding
// creation endpoints so create and import can never disagree on what a
// valid entity looks like.

type productImportRecord struct {
	Name        string   `validate:"required"`
	SKU         string   `validate:"required"`
	Price       float64  `validate:"required,gt=0"`
	Quantity    int      `validate:"gte=0"`
	Category    string   `validate:"required"`
	Images      []string `validate:"required,min=1,dive,required"`
	Description string
	Brand       string
	IsFeatured  bool
}

type categoryImportRecord struct {
	Name        string `validate:"required"`
	Slug        string `validate:"required"`
	Description string
	Parent      string
}

type userImportRecord struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
	Role  string `validate:"omitempty,oneof=customer editor admin"`
}

type blogImportRecord struct {
	Title      string `validate:"required"`
	Slug       string `validate:"required"`
	Content    string `validate:"required"`
	Excerpt    string
	Tags       []string
	CoverImage string
	Author     string
	Published  bool
}

func buildProductRecord(v *validator.Validate, rec map[string]interface{}) (string, map[string]interface{}, error) {
	p := productImportRecord{
		Name:        getString(rec, "name"),
		SKU:         getString(rec, "sku"),
		Category:    getString(rec, "category"),
		Description: getString(rec, "description"),
		Brand:       getString(rec, "brand"),
	}
	var err error
	if p.Price, err = getFloat(rec, "price"); err != nil {
		return "", nil, err
	}
	if p.Quantity, err = getInt(rec, "quantity"); err != nil {
		return "", nil, err
	}
	if p.IsFeatured, err = getBool(rec, "is_featured"); err != nil {
		return "", nil, err
	}
	if p.Images, err = getStringSlice(rec, "images"); err != nil {
		return "", nil, err
	}
	if err := v.Struct(&p); err != nil {
		return "", nil, fmt.Errorf("validation failed: %v", err)
	}
	categoryID, err := primitive.ObjectIDFromHex(p.Category)
	if err != nil {
		return "", nil, fmt.Errorf("invalid category id %q", p.Category)
	}

	doc := map[string]interface{}{
		"name":        p.Name,
		"sku":         p.SKU,
		"price":       p.Price,
		"quantity":    p.Quantity,
		"category":    categoryID,
		"images":      p.Images,
		"description": p.Description,
		"brand":       p.Brand,
		"is_featured": p.IsFeatured,
	}
	return p.SKU, doc, nil
}

func buildCategoryRecord(v *validator.Validate, rec map[string]interface{}) (string, map[string]interface{}, error) {
	c := categoryImportRecord{
		Name:        getString(rec, "name"),
		Slug:        getString(rec, "slug"),
		Description: getString(rec, "description"),
		Parent:      getString(rec, "parent_id"),
	}
	if err := v.Struct(&c); err != nil {
		return "", nil, fmt.Errorf("validation failed: %v", err)
	}

	doc := map[string]interface{}{
		"name":        c.Name,
		"slug":        c.Slug,
		"description": c.Description,
	}
	if c.Parent != "" {
		parentID, err := primitive.ObjectIDFromHex(c.Parent)
		if err != nil {
			return "", nil, fmt.Errorf("invalid parent_id %q", c.Parent)
		}
		doc["parent_id"] = parentID
	}
	return c.Slug, doc, nil
}

// buildUserRecord never touches credentials: imported accounts carry no
// password until the user completes a reset flow.
func buildUserRecord(v *validator.Validate, rec map[string]interface{}) (string, map[string]interface{}, error) {
	u := userImportRecord{
		Name:  getString(rec, "name"),
		Email: strings.ToLower(getString(rec, "email")),
		Role:  getString(rec, "role"),
	}
	if err := v.Struct(&u); err != nil {
		return "", nil, fmt.Errorf("validation failed: %v", err)
	}
	if u.Role == "" {
		u.Role = "customer"
	}

	doc := map[string]interface{}{
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
	}
	return u.Email, doc, nil
}

func buildBlogRecord(v *validator.Validate, rec map[string]interface{}) (string, map[string]interface{}, error) {
	b := blogImportRecord{
		Title:      getString(rec, "title"),
		Slug:       getString(rec, "slug"),
		Content:    getString(rec, "content"),
		Excerpt:    getString(rec, "excerpt"),
		CoverImage: getString(rec, "cover_image"),
		Author:     getString(rec, "author"),
	}
	var err error
	if b.Published, err = getBool(rec, "published"); err != nil {
		return "", nil, err
	}
	if b.Tags, err = getStringSlice(rec, "tags"); err != nil {
		return "", nil, err
	}
	if err := v.Struct(&b); err != nil {
		return "", nil, fmt.Errorf("validation failed: %v", err)
	}

	doc := map[string]interface{}{
		"title":       b.Title,
		"slug":        b.Slug,
		"content":     b.Content,
		"excerpt":     b.Excerpt,
		"tags":        b.Tags,
		"cover_image": b.CoverImage,
		"published":   b.Published,
	}
	if b.Author != "" {
		authorID, err := primitive.ObjectIDFromHex(b.Author)
		if err != nil {
			return "", nil, fmt.Errorf("invalid author id %q", b.Author)
		}
		doc["author"] = authorID
	}
	return b.Slug, doc, nil
}

// Coercion helpers. JSON records carry typed values while CSV cells are
// always strings; both funnel through the same getters.

func getString(rec map[string]interface{}, key string) string {
	v, ok := rec[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

func getFloat(rec map[string]interface{}, key string) (float64, error) {
	v, ok := rec[key]
	if !ok || v == nil {
		return 0, nil
	}
	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case json.Number:
		return t.Float64()
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("field %q must be a number", key)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("field %q must be a number", key)
	}
}

func getInt(rec map[string]interface{}, key string) (int, error) {
	f, err := getFloat(rec, key)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func getBool(rec map[string]interface{}, key string) (bool, error) {
	v, ok := rec[key]
	if !ok || v == nil {
		return false, nil
	}
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return false, nil
		}
		b, err := strconv.ParseBool(s)
		if err != nil {
			return false, fmt.Errorf("field %q must be a boolean", key)
		}
		return b, nil
	default:
		return false, fmt.Errorf("field %q must be a boolean", key)
	}
}

// getStringSlice accepts a JSON array, or a CSV cell: bracketed cells
// are parsed as a JSON array (the form the exporter emits), anything
// else is treated as a single element.
func getStringSlice(rec map[string]interface{}, key string) ([]string, error) {
	v, ok := rec[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch t := v.(type) {
	case []string:
		return t, nil
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, e := range t {
			out = append(out, strings.TrimSpace(fmt.Sprintf("%v", e)))
		}
		return out, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil, nil
		}
		if strings.HasPrefix(s, "[") {
			var out []string
			if err := json.Unmarshal([]byte(s), &out); err != nil {
				return nil, fmt.Errorf("field %q holds a malformed JSON array", key)
			}
			return out, nil
		}
		return []string{s}, nil
	default:
		return nil, fmt.Errorf("field %q must be a list", key)
	}
}
