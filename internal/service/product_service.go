package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/vbonduro/shopupload/internal/domain"
	"github.com/vbonduro/shopupload/internal/filestore"
)

// RecordRepository is the subset of the record stores ProductService requires.
type RecordRepository interface {
	Insert(ctx context.Context, rec *domain.Record) error
	GetByID(ctx context.Context, id int64) (*domain.Record, error)
	List(ctx context.Context) ([]*domain.Record, error)
	Count(ctx context.Context) (int, error)
}

type idGenerator interface {
	Next() (int64, time.Time)
}

// Upload is a file attached to a submission.
type Upload struct {
	// Name is the file name as supplied by the client.
	Name string
	Body io.Reader
}

type SubmitInput struct {
	Name    string
	Price   string
	Content string
	File    *Upload
}

type ProductService struct {
	records RecordRepository
	files   filestore.FileStore
	ids     idGenerator
	logger  *slog.Logger
}

func NewProductService(records RecordRepository, files filestore.FileStore, ids idGenerator, logger *slog.Logger) *ProductService {
	return &ProductService{
		records: records,
		files:   files,
		ids:     ids,
		logger:  logger,
	}
}

// Submit stores the attached file, if any, and appends a new record. The
// record ID doubles as the stored file's name suffix. A file that was
// written before a failed insert is left in place.
func (s *ProductService) Submit(ctx context.Context, in SubmitInput) (*domain.Record, error) {
	id, now := s.ids.Next()

	rec := &domain.Record{
		ID:        id,
		Name:      in.Name,
		Price:     domain.ParsePrice(in.Price),
		Content:   in.Content,
		CreatedAt: now,
	}

	if in.File != nil {
		name := filestore.StoredName(in.File.Name, id)
		key, err := s.files.Save(ctx, name, in.File.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to store upload %q: %w", in.File.Name, err)
		}
		rec.Filename = &key
		s.logger.Debug("upload stored", "record_id", id, "key", key)
	}

	if err := s.records.Insert(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to store record: %w", err)
	}

	s.logger.Info("record submitted", "record_id", id, "has_file", rec.HasFile(), "price_valid", rec.PriceValid())
	return rec, nil
}

// List returns every record, newest first.
func (s *ProductService) List(ctx context.Context) ([]*domain.Record, error) {
	return s.records.List(ctx)
}

// Detail returns the record with the given ID, or nil if there is none.
func (s *ProductService) Detail(ctx context.Context, id int64) (*domain.Record, error) {
	return s.records.GetByID(ctx, id)
}

func (s *ProductService) Count(ctx context.Context) (int, error) {
	return s.records.Count(ctx)
}
