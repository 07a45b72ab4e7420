package controllers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trahoangdev/kureno-sub000/controllers"
	"github.com/trahoangdev/kureno-sub000/models"
)

func paginationFor(t *testing.T, query string) (int, int, error) {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	return controllers.NewRequestValidator().ParsePagination(c)
}

func TestParsePaginationDefaults(t *testing.T) {
	page, perPage, err := paginationFor(t, "")
	require.NoError(t, err)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, perPage)
}

func TestParsePaginationCapsPageSize(t *testing.T) {
	_, perPage, err := paginationFor(t, "perPage=5000")
	require.NoError(t, err)
	assert.Equal(t, controllers.MaxPageSize, perPage)
}

func TestParsePaginationRejectsGarbage(t *testing.T) {
	_, _, err := paginationFor(t, "page=zero")
	assert.Error(t, err)

	_, _, err = paginationFor(t, "page=-1")
	assert.Error(t, err)

	_, _, err = paginationFor(t, "perPage=0")
	assert.Error(t, err)
}

func TestImportFormatByExtension(t *testing.T) {
	rv := controllers.NewRequestValidator()

	format, err := rv.ImportFormat("products.json", "")
	require.NoError(t, err)
	assert.Equal(t, models.FormatJSON, format)

	format, err = rv.ImportFormat("Products.CSV", "")
	require.NoError(t, err)
	assert.Equal(t, models.FormatCSV, format)

	format, err = rv.ImportFormat("dump.txt", "")
	require.NoError(t, err)
	assert.Equal(t, models.FormatCSV, format)
}

func TestImportFormatFallsBackToContentType(t *testing.T) {
	rv := controllers.NewRequestValidator()

	format, err := rv.ImportFormat("upload", "application/json")
	require.NoError(t, err)
	assert.Equal(t, models.FormatJSON, format)

	format, err = rv.ImportFormat("upload", "text/csv")
	require.NoError(t, err)
	assert.Equal(t, models.FormatCSV, format)
}

func TestImportFormatRejectsUnknownType(t *testing.T) {
	_, err := controllers.NewRequestValidator().ImportFormat("products.xlsx", "application/vnd.ms-excel")
	assert.Error(t, err)
}
