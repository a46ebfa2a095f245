package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// FileSource reads the catalog document from the local filesystem on every
// call.
type FileSource struct {
	path    string
	logger  *slog.Logger
	metrics *Metrics
}

// NewFileSource creates a source for the document at path.
func NewFileSource(path string, logger *slog.Logger, opts ...Option) *FileSource {
	o := applyOptions(opts)
	return &FileSource{path: path, logger: logger, metrics: o.metrics}
}

// Products opens and decodes the document.
func (s *FileSource) Products(ctx context.Context) (products []domain.Product, err error) {
	start := time.Now()
	defer func() { s.metrics.observe("file", start, err) }()

	f, err := os.Open(s.path)
	if err != nil {
		return nil, s.unavailable(ctx, err)
	}
	defer f.Close()

	products, err = Decode(f)
	if err != nil {
		return nil, s.unavailable(ctx, err)
	}
	return products, nil
}

func (s *FileSource) unavailable(ctx context.Context, cause error) error {
	s.logger.ErrorContext(ctx, "failed to load catalog products",
		slog.String("path", s.path),
		slog.String("error", cause.Error()),
	)
	return apperrors.Unavailable("catalog", fmt.Errorf("read %s: %w", s.path, cause))
}
