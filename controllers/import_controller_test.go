package controllers_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trahoangdev/kureno-sub000/controllers"
	"github.com/trahoangdev/kureno-sub000/models"
	"github.com/trahoangdev/kureno-sub000/services"
	"go.uber.org/zap"
)

// --- Mock ImportService ---

type mockImportService struct {
	importFn func(ctx context.Context, req services.ImportRequest) (*models.ImportResult, *services.ServiceError)
	lastReq  services.ImportRequest
	called   bool
}

func (m *mockImportService) Import(ctx context.Context, req services.ImportRequest) (*models.ImportResult, *services.ServiceError) {
	m.called = true
	m.lastReq = req
	return m.importFn(ctx, req)
}

func importRouter(svc services.ImportService) *gin.Engine {
	r := gin.New()
	ctl := controllers.NewImportController(svc, controllers.NewCacheManager(nil, zap.NewNop()), controllers.NewRequestValidator(), zap.NewNop())
	r.POST("/import", ctl.Import)
	return r
}

func multipartUpload(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func okImportFn(_ context.Context, _ services.ImportRequest) (*models.ImportResult, *services.ServiceError) {
	return &models.ImportResult{TotalRecords: 2, SuccessCount: 2}, nil
}

func TestImportHandlerRequiresFile(t *testing.T) {
	svc := &mockImportService{importFn: okImportFn}
	r := importRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/import", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "file is required")
	assert.False(t, svc.called)
}

func TestImportHandlerRequiresEntity(t *testing.T) {
	svc := &mockImportService{importFn: okImportFn}
	r := importRouter(svc)

	body, contentType := multipartUpload(t, "products.json", "[]", nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/import", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "entity is required")
	assert.False(t, svc.called)
}

func TestImportHandlerRejectsUnsupportedFileType(t *testing.T) {
	svc := &mockImportService{importFn: okImportFn}
	r := importRouter(svc)

	body, contentType := multipartUpload(t, "products.xlsx", "binary", map[string]string{"entity": "products"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/import", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unsupported file type")
	assert.False(t, svc.called)
}

func TestImportHandlerDetectsFormatAndDefaults(t *testing.T) {
	svc := &mockImportService{importFn: okImportFn}
	r := importRouter(svc)

	body, contentType := multipartUpload(t, "products.csv", "name,sku\nMug,SKU-1", map[string]string{"entity": "Products"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/import", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "products", svc.lastReq.Entity)
	assert.Equal(t, models.ImportModeCreate, svc.lastReq.Mode)
	assert.Equal(t, models.FormatCSV, svc.lastReq.Format)
	assert.False(t, svc.lastReq.ValidateOnly)
	assert.Equal(t, "name,sku\nMug,SKU-1", string(svc.lastReq.Data))
}

func TestImportHandlerPassesModeAndValidateOnly(t *testing.T) {
	svc := &mockImportService{importFn: okImportFn}
	r := importRouter(svc)

	body, contentType := multipartUpload(t, "products.json", "[]", map[string]string{
		"entity":       "products",
		"mode":         "upsert",
		"validateOnly": "true",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/import", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ImportModeUpsert, svc.lastReq.Mode)
	assert.True(t, svc.lastReq.ValidateOnly)
}

func TestImportHandlerRejectsBadValidateOnly(t *testing.T) {
	svc := &mockImportService{importFn: okImportFn}
	r := importRouter(svc)

	body, contentType := multipartUpload(t, "products.json", "[]", map[string]string{
		"entity":       "products",
		"validateOnly": "maybe",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/import", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, svc.called)
}

func TestImportHandlerMapsServiceErrors(t *testing.T) {
	svc := &mockImportService{importFn: func(_ context.Context, _ services.ImportRequest) (*models.ImportResult, *services.ServiceError) {
		return nil, &services.ServiceError{StatusCode: http.StatusBadRequest, Message: `entity "orders" does not support import`}
	}}
	r := importRouter(svc)

	body, contentType := multipartUpload(t, "orders.json", "[]", map[string]string{"entity": "orders"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/import", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "does not support import")
}

func TestImportHandlerReturnsSummary(t *testing.T) {
	svc := &mockImportService{importFn: func(_ context.Context, _ services.ImportRequest) (*models.ImportResult, *services.ServiceError) {
		return &models.ImportResult{
			TotalRecords: 3,
			SuccessCount: 2,
			ErrorCount:   1,
			Errors:       []models.RecordError{{Index: 1, Reason: `duplicate key "SKU-1"`}},
		}, nil
	}}
	r := importRouter(svc)

	body, contentType := multipartUpload(t, "products.json", "[]", map[string]string{"entity": "products"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/import", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Contains(t, w.Body.String(), `"duplicate key \"SKU-1\"`)
}
