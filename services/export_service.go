package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/trahoangdev/kureno-sub000/models"
	"github.com/trahoangdev/kureno-sub000/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// ExportSchemaVersion is stamped into the exportInfo metadata of a full
// bundle so later imports can detect shape drift.
const ExportSchemaVersion = 1

// ExportService renders entity data as a downloadable JSON bundle or a
// flattened CSV table. It never mutates storage.
type ExportService interface {
	Export(ctx context.Context, req models.ExportRequest, actor string) (*models.ExportFile, *ServiceError)
}

type exportServiceImpl struct {
	registry repository.EntityRegistry
	logger   *zap.Logger
	now      func() time.Time
}

func NewExportService(registry repository.EntityRegistry, logger *zap.Logger) ExportService {
	return &exportServiceImpl{
		registry: registry,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *exportServiceImpl) Export(ctx context.Context, req models.ExportRequest, actor string) (*models.ExportFile, *ServiceError) {
	if req.Format != models.FormatJSON && req.Format != models.FormatCSV {
		return nil, badRequest(fmt.Sprintf("unsupported export format %q", req.Format))
	}
	if req.Entity != models.EntityAll && !repository.KnownEntity(req.Entity) {
		return nil, badRequest(fmt.Sprintf("unknown entity %q", req.Entity))
	}
	if req.Format == models.FormatCSV && req.Entity == models.EntityAll {
		return nil, badRequest("CSV export is limited to a single entity")
	}

	if req.Format == models.FormatCSV {
		return s.exportCSV(ctx, req)
	}
	return s.exportJSON(ctx, req, actor)
}

func (s *exportServiceImpl) exportCSV(ctx context.Context, req models.ExportRequest) (*models.ExportFile, *ServiceError) {
	docs, err := s.registry.Fetch(ctx, req.Entity, req.Range)
	if err != nil {
		s.logger.Error("Export fetch failed", zap.String("entity", req.Entity), zap.Error(err))
		return nil, storageError()
	}
	// An empty CSV download is treated as not-found, not as success.
	if len(docs) == 0 {
		return nil, notFound(fmt.Sprintf("no %s records match the export range", req.Entity))
	}

	flattened := make([]bson.D, len(docs))
	for i, doc := range docs {
		flattened[i] = Flatten(doc)
	}

	return &models.ExportFile{
		Filename:    s.filename(req.Entity, "csv"),
		ContentType: "text/csv",
		Body:        []byte(EncodeCSV(flattened)),
	}, nil
}

func (s *exportServiceImpl) exportJSON(ctx context.Context, req models.ExportRequest, actor string) (*models.ExportFile, *ServiceError) {
	var results map[string][]bson.D
	var err error

	if req.Entity == models.EntityAll {
		results, err = s.fetchAll(ctx, req.Range)
	} else {
		var docs []bson.D
		docs, err = s.registry.Fetch(ctx, req.Entity, req.Range)
		results = map[string][]bson.D{req.Entity: docs}
	}
	if err != nil {
		s.logger.Error("Export fetch failed", zap.String("entity", req.Entity), zap.Error(err))
		return nil, storageError()
	}

	bundle := make(map[string]interface{}, len(results)+1)
	for entity, docs := range results {
		records := make([]interface{}, len(docs))
		for i, doc := range docs {
			records[i] = ToPlain(doc)
		}
		bundle[entity] = records
	}
	if req.Entity == models.EntityAll {
		bundle["exportInfo"] = models.ExportInfo{
			ExportID:      uuid.New().String(),
			ExportedAt:    s.now().UTC(),
			ExportedBy:    actor,
			Entity:        req.Entity,
			Format:        req.Format,
			StartDate:     req.Range.Start,
			EndDate:       req.Range.End,
			SchemaVersion: ExportSchemaVersion,
		}
	}

	body, jsonErr := json.MarshalIndent(bundle, "", "  ")
	if jsonErr != nil {
		s.logger.Error("Export encoding failed", zap.String("entity", req.Entity), zap.Error(jsonErr))
		return nil, storageError()
	}

	return &models.ExportFile{
		Filename:    s.filename(req.Entity, "json"),
		ContentType: "application/json",
		Body:        body,
	}, nil
}

// fetchAll fetches every concrete entity concurrently and waits for the
// full fan-in. A single failed fetch fails the whole bundle; partial
// "all" exports are never produced.
func (s *exportServiceImpl) fetchAll(ctx context.Context, dateRange models.DateRange) (map[string][]bson.D, error) {
	entities := s.registry.Entities()
	results := make(map[string][]bson.D, len(entities))

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for _, entity := range entities {
		wg.Add(1)
		go func(entity string) {
			defer wg.Done()
			docs, err := s.registry.Fetch(ctx, entity, dateRange)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("fetch %s: %w", entity, err)
				}
				return
			}
			results[entity] = docs
		}(entity)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

func (s *exportServiceImpl) filename(entity, ext string) string {
	return fmt.Sprintf("kureno-%s-export-%s.%s", entity, s.now().UTC().Format("2006-01-02"), ext)
}
