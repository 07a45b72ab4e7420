package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/trahoangdev/kureno-sub000/models"
	"github.com/trahoangdev/kureno-sub000/repository"
	"go.uber.org/zap"
)

// MaxImportSize caps uploaded import files; oversized uploads are
// rejected before any parsing happens.
const MaxImportSize = 10 * 1024 * 1024 // 10MB

// ImportRequest is a parsed upload ready for processing. Data is the
// raw file content; Format declares how to parse it.
type ImportRequest struct {
	Entity       string
	Mode         models.ImportMode
	ValidateOnly bool
	Format       string
	Data         []byte
}

// ImportService validates and applies uploaded records one by one.
// Records are independent: a failing record is reported, never fatal.
type ImportService interface {
	Import(ctx context.Context, req ImportRequest) (*models.ImportResult, *ServiceError)
}

// recordBuilder turns one raw record into its natural key and storage
// document, validating shape on the way.
type recordBuilder func(v *validator.Validate, rec map[string]interface{}) (string, map[string]interface{}, error)

type entityImporter struct {
	target repository.ImportTarget
	build  recordBuilder
}

type importServiceImpl struct {
	importers map[string]entityImporter
	validate  *validator.Validate
	logger    *zap.Logger
}

// ImportTargets carries the per-entity write surfaces the importer can
// apply records to. Entities without a natural unique key (orders,
// comments, notifications) are not importable.
type ImportTargets struct {
	Products   repository.ImportTarget
	Categories repository.ImportTarget
	Users      repository.ImportTarget
	Blog       repository.ImportTarget
}

func NewImportService(targets ImportTargets, logger *zap.Logger) ImportService {
	return &importServiceImpl{
		importers: map[string]entityImporter{
			models.EntityProducts:   {target: targets.Products, build: buildProductRecord},
			models.EntityCategories: {target: targets.Categories, build: buildCategoryRecord},
			models.EntityUsers:      {target: targets.Users, build: buildUserRecord},
			models.EntityBlog:       {target: targets.Blog, build: buildBlogRecord},
		},
		validate: validator.New(),
		logger:   logger,
	}
}

func (s *importServiceImpl) Import(ctx context.Context, req ImportRequest) (*models.ImportResult, *ServiceError) {
	if len(req.Data) > MaxImportSize {
		return nil, payloadTooLarge(fmt.Sprintf("import file too large (max %dMB)", MaxImportSize/(1024*1024)))
	}
	if req.Mode != models.ImportModeCreate && req.Mode != models.ImportModeUpsert {
		return nil, badRequest(fmt.Sprintf("unsupported import mode %q", req.Mode))
	}
	importer, ok := s.importers[req.Entity]
	if !ok {
		return nil, badRequest(fmt.Sprintf("entity %q does not support import", req.Entity))
	}

	records, err := parseRecords(req.Format, req.Data)
	if err != nil {
		return nil, badRequest(err.Error())
	}

	result := &models.ImportResult{TotalRecords: len(records)}
	for i, rec := range records {
		if err := s.applyRecord(ctx, importer, req, rec); err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, models.RecordError{Index: i, Reason: err.Error()})
			continue
		}
		result.SuccessCount++
	}

	s.logger.Info("Import processed",
		zap.String("entity", req.Entity),
		zap.String("mode", string(req.Mode)),
		zap.Bool("validate_only", req.ValidateOnly),
		zap.Int("total", result.TotalRecords),
		zap.Int("succeeded", result.SuccessCount),
		zap.Int("failed", result.ErrorCount),
	)
	return result, nil
}

// applyRecord runs the full per-record pipeline. In validateOnly mode
// the key lookup still happens so the report previews the real effect,
// but nothing is written.
func (s *importServiceImpl) applyRecord(ctx context.Context, importer entityImporter, req ImportRequest, rec map[string]interface{}) error {
	key, doc, err := importer.build(s.validate, rec)
	if err != nil {
		return err
	}

	exists, err := importer.target.Exists(ctx, key)
	if err != nil {
		s.logger.Error("Import key lookup failed", zap.String("entity", req.Entity), zap.String("key", key), zap.Error(err))
		return fmt.Errorf("storage lookup failed for %q", key)
	}

	switch req.Mode {
	case models.ImportModeCreate:
		if exists {
			return fmt.Errorf("duplicate key %q", key)
		}
		if req.ValidateOnly {
			return nil
		}
		if err := importer.target.Insert(ctx, doc); err != nil {
			s.logger.Error("Import insert failed", zap.String("entity", req.Entity), zap.String("key", key), zap.Error(err))
			return fmt.Errorf("failed to create %q", key)
		}
	case models.ImportModeUpsert:
		if req.ValidateOnly {
			return nil
		}
		if err := importer.target.Upsert(ctx, key, doc); err != nil {
			s.logger.Error("Import upsert failed", zap.String("entity", req.Entity), zap.String("key", key), zap.Error(err))
			return fmt.Errorf("failed to upsert %q", key)
		}
	}
	return nil
}

func parseRecords(format string, data []byte) ([]map[string]interface{}, error) {
	switch format {
	case models.FormatJSON:
		var records []map[string]interface{}
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("invalid JSON: expected an array of records")
		}
		return records, nil
	case models.FormatCSV:
		return parseCSVRecords(data)
	default:
		return nil, fmt.Errorf("unsupported import format %q", format)
	}
}

// parseCSVRecords maps each CSV row back to a nested record: dotted
// header names (address.city) rebuild sub-documents, the inverse of
// export flattening.
func parseCSVRecords(data []byte) ([]map[string]interface{}, error) {
	r := csv.NewReader(bytes.NewReader(data))
	headers, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("CSV must include a header row")
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	var records []map[string]interface{}
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed CSV near row %d", len(records)+2)
		}
		rec := make(map[string]interface{}, len(headers))
		for i, h := range headers {
			if h == "" || i >= len(row) {
				continue
			}
			setPath(rec, h, row[i])
		}
		records = append(records, rec)
	}
	return records, nil
}

// setPath writes value under a dotted path, creating intermediate maps.
func setPath(rec map[string]interface{}, path string, value interface{}) {
	parts := strings.Split(path, ".")
	current := rec
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}
