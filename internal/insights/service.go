package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/zombor/receipt-insights/internal/classify"
	"github.com/zombor/receipt-insights/internal/receipts"
)

// Categorizer assigns category labels to a set of product descriptions.
// classify.Categorizer is the production implementation.
type Categorizer interface {
	Categorize(ctx context.Context, descriptions []string) classify.Result
}

// IDGenerator generates unique IDs for runs
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates IDs using UnixNano timestamp
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service runs the analysis pipeline and manages run history.
type Service struct {
	db          DB
	categorizer Categorizer
	storage     Storage
	topN        int
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time
// source. A nil categorizer disables classification; every product then
// falls under the OTHER category.
func NewService(db DB, categorizer Categorizer, storage Storage, topN int) *Service {
	return &Service{
		db:          db,
		categorizer: categorizer,
		storage:     storage,
		topN:        topN,
		idGenerator: &defaultIDGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, categorizer Categorizer, storage Storage, topN int, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		categorizer: categorizer,
		storage:     storage,
		topN:        topN,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// GenerateReport runs the full pipeline over the receipt collection:
// collect classifiable descriptions, categorize them, aggregate, assemble,
// persist the report, and write the run artifacts. It returns the report
// and the diagnostic list of descriptions that ended up in the OTHER
// category.
func (s *Service) GenerateReport(ctx context.Context, rcpts []receipts.Receipt) (*Report, []string, error) {
	if len(rcpts) == 0 {
		return nil, nil, ErrNoReceipts
	}

	descriptions := distinctDescriptions(rcpts)
	slog.Info("Analyzing receipts",
		"receipts", len(rcpts),
		"unique_products", len(descriptions),
	)

	var result classify.Result
	if s.categorizer != nil {
		result = s.categorizer.Categorize(ctx, descriptions)
	} else {
		slog.Warn("No classifier configured, every product defaults to OTHER")
	}

	report, err := BuildReport(rcpts, result.Assignments, s.topN)
	if err != nil {
		return nil, nil, fmt.Errorf("building report: %w", err)
	}
	report.ID = s.idGenerator.Generate()
	report.CreatedAt = s.timeSource.Now()

	if err := s.db.SaveReport(report); err != nil {
		return nil, nil, fmt.Errorf("saving report to database: %w", err)
	}

	if err := s.writeArtifacts(report, result.Other); err != nil {
		return nil, nil, fmt.Errorf("writing artifacts: %w", err)
	}

	return report, result.Other, nil
}

// GetReport retrieves a report by run ID
func (s *Service) GetReport(id string) (*Report, error) {
	report, err := s.db.GetReport(id)
	if err != nil {
		return nil, fmt.Errorf("getting report: %w", err)
	}
	return report, nil
}

// ListReports returns all reports, oldest first
func (s *Service) ListReports() ([]*Report, error) {
	reports, err := s.db.ListReports()
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	return reports, nil
}

// LatestReport returns the most recent report, or ErrNoReceipts when no run
// has happened yet.
func (s *Service) LatestReport() (*Report, error) {
	reports, err := s.db.ListReports()
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	if len(reports) == 0 {
		return nil, fmt.Errorf("no reports generated yet")
	}
	return reports[len(reports)-1], nil
}

// OtherProducts returns the diagnostics artifact written by the last run.
func (s *Service) OtherProducts() ([]byte, error) {
	data, err := s.storage.Get(OtherFilename)
	if err != nil {
		return nil, fmt.Errorf("getting diagnostics artifact: %w", err)
	}
	return data, nil
}

func (s *Service) writeArtifacts(report *Report, other []string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if _, err := s.storage.Save(ReportFilename, data); err != nil {
		return fmt.Errorf("saving report artifact: %w", err)
	}

	var b strings.Builder
	b.WriteString("Products in OTHER category:\n")
	for _, description := range other {
		b.WriteString("- " + description + "\n")
	}
	if _, err := s.storage.Save(OtherFilename, []byte(b.String())); err != nil {
		return fmt.Errorf("saving diagnostics artifact: %w", err)
	}

	page, err := RenderDashboard(report)
	if err != nil {
		return err
	}
	if _, err := s.storage.Save(DashboardFilename, page); err != nil {
		return fmt.Errorf("saving dashboard artifact: %w", err)
	}

	return nil
}

// distinctDescriptions collects the unique classifiable product
// descriptions in encounter order.
func distinctDescriptions(rcpts []receipts.Receipt) []string {
	seen := make(map[string]struct{})
	var descriptions []string
	for _, r := range rcpts {
		for _, item := range r.Products {
			if !receipts.EligibleForClassification(item) {
				continue
			}
			if _, ok := seen[item.Description]; ok {
				continue
			}
			seen[item.Description] = struct{}{}
			descriptions = append(descriptions, item.Description)
		}
	}
	return descriptions
}
