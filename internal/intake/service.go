package intake

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"go.uber.org/zap"

	"github.com/PratikDhanave/lodging-intake-service/internal/metrics"
	"github.com/PratikDhanave/lodging-intake-service/internal/models"
	"github.com/PratikDhanave/lodging-intake-service/internal/storage"
)

// Service accepts listing submissions. Listings themselves are not stored;
// only their image files are.
type Service struct {
	store  storage.ObjectStore
	logger *zap.Logger
	now    func() time.Time
}

func NewService(store storage.ObjectStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// Save stores every uploaded image and returns the echoed listing. Files that
// cannot be read, are not images or fail to store are logged and left out of
// Listing.Images; they never fail the submission.
func (s *Service) Save(ctx context.Context, form models.ListingForm, files []*multipart.FileHeader) models.Listing {
	listing := models.Listing{
		ListingForm: form,
		CreatedAt:   s.now().Format(CreatedAtLayout),
	}

	for _, fh := range files {
		ref, err := s.storeImage(ctx, fh)
		if err != nil {
			metrics.Uploads.WithLabelValues("skipped").Inc()
			s.logger.Warn("skipping uploaded file",
				zap.String("file", fh.Filename),
				zap.Int64("size", fh.Size),
				zap.Error(err),
			)
			continue
		}
		metrics.Uploads.WithLabelValues("stored").Inc()
		listing.Images = append(listing.Images, ref)
	}

	metrics.Listings.Inc()
	s.logger.Info("listing received",
		zap.String("name", form.Name),
		zap.String("type", form.Type),
		zap.Int("images", len(listing.Images)),
	)
	return listing
}

func (s *Service) storeImage(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	mime, err := SniffImage(f)
	if err != nil {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewinding upload: %w", err)
	}

	return s.store.Put(ctx, storage.UniqueName(fh.Filename), mime, f)
}

// Preview builds the summary of a submission without storing anything.
// Accepted images are embedded as data URIs; other files are listed as
// rejected.
func (s *Service) Preview(form models.ListingForm, files []*multipart.FileHeader) models.Summary {
	var previews Previews
	for _, fh := range files {
		data, err := readUpload(fh)
		if err != nil {
			s.logger.Warn("skipping unreadable file in preview", zap.String("file", fh.Filename), zap.Error(err))
			continue
		}
		previews.Add(fh.Filename, data)
	}

	summary := BuildSummary(form, previews.DataURIs())
	summary.Rejected = previews.Rejected
	return summary
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
