package app

import (
	"context"
	"fmt"
	"time"

	"goanova/adapters/report"
	domainAnova "goanova/domain/anova"
	"goanova/internal/analysis/anova"
	"goanova/internal/errors"
	"goanova/internal/logging"
	"goanova/ports"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// AnalysisService orchestrates matrix loading and ANOVA table computation
type AnalysisService struct {
	reader  ports.MatrixReader
	dist    ports.FDistribution
	workers int
	logger  *logging.Logger
}

// AnalysisRequest describes one analysis. When Matrix is nil the matrix is
// loaded from Source through the reader; otherwise Source is only a label.
type AnalysisRequest struct {
	Source string      `json:"source"`
	Matrix [][]float64 `json:"matrix,omitempty"`
	Block  bool        `json:"block"`
}

// AnalysisReport is a finished analysis with its provenance
type AnalysisReport struct {
	ID        string             `json:"id"`
	Source    string             `json:"source"`
	CreatedAt time.Time          `json:"created_at"`
	RuntimeMs int64              `json:"runtime_ms"`
	Table     *domainAnova.Table `json:"table"`
}

// Document adapts the report for the renderer
func (r *AnalysisReport) Document() report.Document {
	title := r.Source
	if title == "" {
		title = "analysis " + r.ID
	}
	return report.Document{Title: title, Table: r.Table}
}

// NewAnalysisService creates an analysis service. reader may be nil when
// every request carries its matrix inline.
func NewAnalysisService(reader ports.MatrixReader, dist ports.FDistribution, workers int) *AnalysisService {
	if workers < 1 {
		workers = 1
	}
	return &AnalysisService{
		reader:  reader,
		dist:    dist,
		workers: workers,
		logger:  logging.Default().With("AnalysisService"),
	}
}

// WithLogger replaces the service logger
func (s *AnalysisService) WithLogger(l *logging.Logger) *AnalysisService {
	s.logger = l.With("AnalysisService")
	return s
}

// Analyze runs a single analysis
func (s *AnalysisService) Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	startTime := time.Now()

	matrix := req.Matrix
	if matrix == nil {
		if s.reader == nil {
			return nil, errors.InvalidInput("no matrix supplied and no reader configured")
		}
		var err error
		matrix, err = s.reader.ReadMatrix(ctx, req.Source)
		if err != nil {
			s.logger.Warn("loading %s failed: %v", req.Source, err)
			return nil, errors.Wrapf(err, "failed to load matrix from %s", req.Source)
		}
	}

	engine, err := anova.NewEngine(matrix, req.Block, s.dist)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build ANOVA engine")
	}

	table, err := engine.Analyze()
	if err != nil {
		return nil, errors.Wrap(err, "analysis failed")
	}

	result := &AnalysisReport{
		ID:        uuid.New().String(),
		Source:    req.Source,
		CreatedAt: startTime.UTC(),
		RuntimeMs: time.Since(startTime).Milliseconds(),
		Table:     table,
	}

	s.logger.Info("%s %s: %dx%d, treatment F=%.2f (%s)",
		result.ID, table.Design, table.Treatments, table.Replicates,
		table.Treatment.FStatistic, table.Treatment.Significance)

	return result, nil
}

// AnalyzeAll runs independent analyses concurrently, at most s.workers at a
// time. Reports come back in request order; the first failure cancels the rest.
func (s *AnalysisService) AnalyzeAll(ctx context.Context, reqs []AnalysisRequest) ([]*AnalysisReport, error) {
	reports := make([]*AnalysisReport, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, req := range reqs {
		g.Go(func() error {
			r, err := s.Analyze(gctx, req)
			if err != nil {
				return errors.Wrap(err, fmt.Sprintf("request %d (%s)", i, req.Source))
			}
			reports[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
