package services_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trahoangdev/kureno-sub000/models"
	"github.com/trahoangdev/kureno-sub000/services"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// --- Mock Target ---

type mockTarget struct {
	existing  map[string]bool
	inserted  []bson.M
	upserted  map[string]bson.M
	lookupErr error
}

func newMockTarget(existing ...string) *mockTarget {
	m := &mockTarget{existing: make(map[string]bool), upserted: make(map[string]bson.M)}
	for _, key := range existing {
		m.existing[key] = true
	}
	return m
}

func (m *mockTarget) Exists(_ context.Context, key string) (bool, error) {
	if m.lookupErr != nil {
		return false, m.lookupErr
	}
	return m.existing[key], nil
}

func (m *mockTarget) Insert(_ context.Context, doc bson.M) error {
	m.inserted = append(m.inserted, doc)
	return nil
}

func (m *mockTarget) Upsert(_ context.Context, key string, doc bson.M) error {
	m.upserted[key] = doc
	return nil
}

func newTestImportService(products *mockTarget) services.ImportService {
	return services.NewImportService(services.ImportTargets{
		Products:   products,
		Categories: newMockTarget(),
		Users:      newMockTarget(),
		Blog:       newMockTarget(),
	}, zap.NewNop())
}

const testCategoryID = "507f1f77bcf86cd799439011"

func productJSON(sku string) string {
	return `{"name":"Mug","sku":"` + sku + `","price":12.5,"quantity":3,"category":"` + testCategoryID + `","images":["a.jpg"]}`
}

func TestImportRejectsOversizedPayload(t *testing.T) {
	svc := newTestImportService(newMockTarget())

	_, err := svc.Import(context.Background(), services.ImportRequest{
		Entity: "products",
		Mode:   models.ImportModeCreate,
		Format: models.FormatJSON,
		Data:   bytes.Repeat([]byte("x"), services.MaxImportSize+1),
	})

	require.NotNil(t, err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, err.StatusCode)
}

func TestImportRejectsUnknownMode(t *testing.T) {
	svc := newTestImportService(newMockTarget())

	_, err := svc.Import(context.Background(), services.ImportRequest{
		Entity: "products",
		Mode:   "merge",
		Format: models.FormatJSON,
		Data:   []byte("[]"),
	})

	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
}

func TestImportRejectsNonImportableEntity(t *testing.T) {
	svc := newTestImportService(newMockTarget())

	_, err := svc.Import(context.Background(), services.ImportRequest{
		Entity: "orders",
		Mode:   models.ImportModeCreate,
		Format: models.FormatJSON,
		Data:   []byte("[]"),
	})

	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Contains(t, err.Message, "does not support import")
}

func TestImportRejectsNonArrayJSON(t *testing.T) {
	svc := newTestImportService(newMockTarget())

	_, err := svc.Import(context.Background(), services.ImportRequest{
		Entity: "products",
		Mode:   models.ImportModeCreate,
		Format: models.FormatJSON,
		Data:   []byte(`{"name":"Mug"}`),
	})

	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
}

// A failing record is reported with its index; the rest of the batch
// still applies.
func TestImportCreateReportsPerRecordErrors(t *testing.T) {
	target := newMockTarget()
	svc := newTestImportService(target)

	data := `[` + productJSON("SKU-1") + `,{"name":"NoSKU","price":5,"category":"` + testCategoryID + `","images":["a.jpg"]},` + productJSON("SKU-3") + `]`

	result, err := svc.Import(context.Background(), services.ImportRequest{
		Entity: "products",
		Mode:   models.ImportModeCreate,
		Format: models.FormatJSON,
		Data:   []byte(data),
	})

	require.Nil(t, err)
	assert.Equal(t, 3, result.TotalRecords)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.ErrorCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Index)
	assert.Len(t, target.inserted, 2)
}

func TestImportCreateRejectsDuplicateKey(t *testing.T) {
	target := newMockTarget("SKU-1")
	svc := newTestImportService(target)

	result, err := svc.Import(context.Background(), services.ImportRequest{
		Entity: "products",
		Mode:   models.ImportModeCreate,
		Format: models.FormatJSON,
		Data:   []byte(`[` + productJSON("SKU-1") + `]`),
	})

	require.Nil(t, err)
	assert.Equal(t, 0, result.SuccessCount)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Reason, "duplicate key")
	assert.Empty(t, target.inserted)
}

func TestImportUpsertOverwritesExisting(t *testing.T) {
	target := newMockTarget("SKU-1")
	svc := newTestImportService(target)

	result, err := svc.Import(context.Background(), services.ImportRequest{
		Entity: "products",
		Mode:   models.ImportModeUpsert,
		Format: models.FormatJSON,
		Data:   []byte(`[` + productJSON("SKU-1") + `]`),
	})

	require.Nil(t, err)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Contains(t, target.upserted, "SKU-1")
	assert.Empty(t, target.inserted)
}

// validateOnly runs the full validation and key lookup but never writes.
func TestImportValidateOnlyNeverWrites(t *testing.T) {
	target := newMockTarget("SKU-1")
	svc := newTestImportService(target)

	data := `[` + productJSON("SKU-1") + `,` + productJSON("SKU-2") + `]`
	result, err := svc.Import(context.Background(), services.ImportRequest{
		Entity:       "products",
		Mode:         models.ImportModeCreate,
		ValidateOnly: true,
		Format:       models.FormatJSON,
		Data:         []byte(data),
	})

	require.Nil(t, err)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.ErrorCount)
	assert.Empty(t, target.inserted)
	assert.Empty(t, target.upserted)
}

func TestImportLookupFailureIsRecordError(t *testing.T) {
	target := newMockTarget()
	target.lookupErr = errors.New("connection reset")
	svc := newTestImportService(target)

	result, err := svc.Import(context.Background(), services.ImportRequest{
		Entity: "products",
		Mode:   models.ImportModeCreate,
		Format: models.FormatJSON,
		Data:   []byte(`[` + productJSON("SKU-1") + `]`),
	})

	require.Nil(t, err)
	assert.Equal(t, 1, result.ErrorCount)
	assert.Contains(t, result.Errors[0].Reason, "storage lookup failed")
}

func TestImportCSVRebuildsNestedKeysAndArrays(t *testing.T) {
	target := newMockTarget()
	svc := newTestImportService(target)

	csv := "name,sku,price,quantity,category,images\n" +
		"Mug,SKU-1,12.5,3," + testCategoryID + ",\"[\"\"a.jpg\"\",\"\"b.jpg\"\"]\"\n" +
		"Plate,SKU-2,30,1," + testCategoryID + ",front.jpg\n"

	result, err := svc.Import(context.Background(), services.ImportRequest{
		Entity: "products",
		Mode:   models.ImportModeCreate,
		Format: models.FormatCSV,
		Data:   []byte(csv),
	})

	require.Nil(t, err)
	assert.Equal(t, 2, result.SuccessCount)
	require.Len(t, target.inserted, 2)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, target.inserted[0]["images"])
	assert.Equal(t, []string{"front.jpg"}, target.inserted[1]["images"])
	assert.Equal(t, 12.5, target.inserted[0]["price"])
}

func TestImportCSVMissingHeaderIsBadRequest(t *testing.T) {
	svc := newTestImportService(newMockTarget())

	_, err := svc.Import(context.Background(), services.ImportRequest{
		Entity: "products",
		Mode:   models.ImportModeCreate,
		Format: models.FormatCSV,
		Data:   []byte(""),
	})

	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
}

func TestImportUserRecordNormalizesAndNeverImportsPassword(t *testing.T) {
	users := newMockTarget()
	svc := services.NewImportService(services.ImportTargets{
		Products:   newMockTarget(),
		Categories: newMockTarget(),
		Users:      users,
		Blog:       newMockTarget(),
	}, zap.NewNop())

	data := `[{"name":"Ada","email":"Ada@Example.COM","password":"hunter2"}]`
	result, err := svc.Import(context.Background(), services.ImportRequest{
		Entity: "users",
		Mode:   models.ImportModeCreate,
		Format: models.FormatJSON,
		Data:   []byte(data),
	})

	require.Nil(t, err)
	assert.Equal(t, 1, result.SuccessCount)
	require.Len(t, users.inserted, 1)
	assert.Equal(t, "ada@example.com", users.inserted[0]["email"])
	assert.Equal(t, "customer", users.inserted[0]["role"])
	assert.NotContains(t, users.inserted[0], "password")
}
