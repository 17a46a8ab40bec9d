package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/pickleball-league/internal/domain/division"
	"github.com/riskibarqy/pickleball-league/internal/domain/match"
	"github.com/riskibarqy/pickleball-league/internal/domain/team"
	"github.com/riskibarqy/pickleball-league/internal/infrastructure/sheet"
	"github.com/riskibarqy/pickleball-league/internal/platform/id"
	"github.com/riskibarqy/pickleball-league/internal/platform/logging"
)

type Status string

const (
	StatusSuccess      Status = "success"
	StatusSkipped      Status = "skipped"
	StatusFailed       Status = "failed"
	StatusServiceError Status = "service_error"
	StatusConfigError  Status = "config_error"
)

// Title is the headline a notifier shows for the status.
func (s Status) Title() string {
	switch s {
	case StatusSuccess:
		return "Ingestion Complete"
	case StatusSkipped:
		return "Ingestion Skipped"
	case StatusFailed:
		return "Ingestion Failed"
	case StatusServiceError:
		return "Service Error"
	case StatusConfigError:
		return "Configuration Error"
	default:
		return "Ingestion"
	}
}

const (
	reportCreatedTeamsLimit = 5
	reportRowErrorsLimit    = 10
)

// Source is one attachment to ingest plus the envelope it arrived in.
type Source struct {
	Subject    string
	ReceivedAt time.Time
	Attachment string
	Data       []byte
}

// Report is the classified outcome of one run.
type Report struct {
	Subject              string
	ReceivedAt           time.Time
	Attachment           string
	CurrentRows          int
	NewRows              int
	CreatedTeams         []string
	CreatedTeamsOverflow int
	RowErrors            []RowError
	RowErrorsOverflow    int
	Status               Status
	Title                string
	Description          string
	DatasetMayBeEmpty    bool
	StartedAt            time.Time
	FinishedAt           time.Time
}

func (r Report) Succeeded() bool {
	return r.Status == StatusSuccess
}

// Notifier receives every finished report.
type Notifier interface {
	Notify(ctx context.Context, report Report) error
}

type readCachePurger interface {
	Purge(ctx context.Context)
}

type IngestionOption func(*IngestionService)

func WithIngestionClock(clock clockwork.Clock) IngestionOption {
	return func(s *IngestionService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithStoreTimeout bounds every store call of a run.
func WithStoreTimeout(timeout time.Duration) IngestionOption {
	return func(s *IngestionService) {
		s.storeTimeout = timeout
	}
}

// WithReadCache purges cache after every successful run and after any run
// that created teams.
func WithReadCache(cache readCachePurger) IngestionOption {
	return func(s *IngestionService) {
		s.readCache = cache
	}
}

func WithIngestionLogger(logger *logging.Logger) IngestionOption {
	return func(s *IngestionService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// IngestionService replaces the stored match set with one attachment's rows,
// unless the new batch is empty or smaller than what is stored.
type IngestionService struct {
	divisionRepo division.Repository
	teamRepo     team.Repository
	matchRepo    match.Repository
	idGen        id.Generator
	parser       *MatchRowParser
	notifier     Notifier
	readCache    readCachePurger
	clock        clockwork.Clock
	storeTimeout time.Duration
	logger       *logging.Logger

	running sync.Mutex
}

func NewIngestionService(
	divisionRepo division.Repository,
	teamRepo team.Repository,
	matchRepo match.Repository,
	idGen id.Generator,
	notifier Notifier,
	opts ...IngestionOption,
) *IngestionService {
	if idGen == nil {
		idGen = id.NewUUIDGenerator()
	}
	s := &IngestionService{
		divisionRepo: divisionRepo,
		teamRepo:     teamRepo,
		matchRepo:    matchRepo,
		idGen:        idGen,
		parser:       NewMatchRowParser(),
		notifier:     notifier,
		clock:        clockwork.NewRealClock(),
		logger:       logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run processes src end to end and always produces a classified report. The
// only error is ErrIngestionInProgress, returned when another run holds the lock.
func (s *IngestionService) Run(ctx context.Context, src Source) (Report, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.Run")
	defer span.End()

	if !s.running.TryLock() {
		return Report{}, ErrIngestionInProgress
	}
	defer s.running.Unlock()

	report := Report{
		Subject:    src.Subject,
		ReceivedAt: src.ReceivedAt,
		Attachment: src.Attachment,
		StartedAt:  s.clock.Now().UTC(),
	}
	s.execute(ctx, src, &report)
	s.finish(ctx, &report)
	return report, nil
}

func (s *IngestionService) execute(ctx context.Context, src Source, report *Report) {
	if s.divisionRepo == nil || s.teamRepo == nil || s.matchRepo == nil {
		report.classify(StatusConfigError, "store is not configured")
		return
	}

	rows, err := sheet.Read(src.Data, sheet.DetectFormat(src.Attachment, src.Data))
	if err != nil {
		report.classify(StatusSkipped, fmt.Sprintf("attachment could not be read: %v", err))
		return
	}

	lookupCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	lookups, err := LoadLookupCache(lookupCtx, s.divisionRepo, s.teamRepo)
	cancel()
	if err != nil {
		s.logger.ErrorContext(ctx, "load ingestion lookups failed", "error", err)
		report.classify(StatusServiceError, fmt.Sprintf("load divisions and teams: %v", err))
		return
	}

	countCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	currentCount, err := s.matchRepo.Count(countCtx)
	cancel()
	if err != nil {
		s.logger.ErrorContext(ctx, "count stored matches failed", "error", err)
		report.classify(StatusServiceError, fmt.Sprintf("count stored matches: %v", err))
		return
	}
	report.CurrentRows = currentCount

	candidates, parseErrors := s.parser.Parse(rows)
	resolver := NewIdentityResolver(lookups, s.teamRepo, s.storeTimeout, s.logger)
	matches, resolveErrors := resolver.Resolve(ctx, candidates)
	report.setCreatedTeams(resolver.Created())

	rowErrors := append(parseErrors, resolveErrors...)
	for idx := range matches {
		matchID, err := s.idGen.NewID()
		if err != nil {
			report.setRowErrors(rowErrors)
			report.classify(StatusServiceError, fmt.Sprintf("generate match id: %v", err))
			return
		}
		matches[idx].ID = matchID
	}
	report.setRowErrors(rowErrors)
	report.NewRows = len(matches)

	s.logger.InfoContext(ctx, "ingestion batch parsed",
		"attachment", src.Attachment,
		"current_rows", currentCount,
		"new_rows", len(matches),
		"row_errors", len(rowErrors),
		"created_teams", len(resolver.Created()),
	)

	switch {
	case len(matches) == 0:
		report.classify(StatusSkipped, "0 matches in new data")
		return
	case len(matches) < currentCount:
		report.classify(StatusSkipped, fmt.Sprintf("fewer rows than current DB (%d < %d)", len(matches), currentCount))
		return
	}

	if err := s.replace(ctx, matches, report); err != nil {
		s.logger.ErrorContext(ctx, "replace matches failed", "error", err, "dataset_may_be_empty", report.DatasetMayBeEmpty)
		description := fmt.Sprintf("replace matches: %v", err)
		if report.DatasetMayBeEmpty {
			description += "; existing matches were deleted and the new batch was not stored, the matches table may be empty"
		}
		report.classify(StatusFailed, description)
		return
	}

	report.classify(StatusSuccess, fmt.Sprintf("replaced %d stored matches with %d new matches", currentCount, len(matches)))
}

// replace swaps the match set, atomically when the store supports it.
func (s *IngestionService) replace(ctx context.Context, matches []match.Match, report *Report) error {
	if replacer, ok := s.matchRepo.(match.Replacer); ok {
		callCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
		defer cancel()
		return replacer.ReplaceAll(callCtx, matches)
	}

	deleteCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	err := s.matchRepo.DeleteAll(deleteCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("delete matches: %w", err)
	}

	insertCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	err = s.matchRepo.InsertMany(insertCtx, matches)
	cancel()
	if err != nil {
		report.DatasetMayBeEmpty = true
		return fmt.Errorf("insert matches: %w", err)
	}
	return nil
}

func (s *IngestionService) finish(ctx context.Context, report *Report) {
	report.FinishedAt = s.clock.Now().UTC()

	// Auto-created teams persist even when the run is skipped.
	if s.readCache != nil && (report.Status == StatusSuccess || len(report.CreatedTeams) > 0) {
		s.readCache.Purge(ctx)
	}

	logArgs := []any{
		"status", report.Status,
		"subject", report.Subject,
		"attachment", report.Attachment,
		"current_rows", report.CurrentRows,
		"new_rows", report.NewRows,
		"duration", report.FinishedAt.Sub(report.StartedAt),
	}
	switch report.Status {
	case StatusSuccess:
		s.logger.InfoContext(ctx, "ingestion finished", logArgs...)
	case StatusSkipped:
		s.logger.WarnContext(ctx, "ingestion skipped", append(logArgs, "reason", report.Description)...)
	default:
		s.logger.ErrorContext(ctx, "ingestion failed", append(logArgs, "reason", report.Description)...)
	}

	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, *report); err != nil {
		s.logger.WarnContext(ctx, "send ingestion report failed", "error", err, "status", report.Status)
	}
}

func (r *Report) classify(status Status, description string) {
	r.Status = status
	r.Title = status.Title()
	r.Description = description
}

func (r *Report) setCreatedTeams(created []team.Team) {
	names := make([]string, 0, min(len(created), reportCreatedTeamsLimit))
	for idx, item := range created {
		if idx >= reportCreatedTeamsLimit {
			break
		}
		names = append(names, item.Name)
	}
	r.CreatedTeams = names
	r.CreatedTeamsOverflow = max(len(created)-reportCreatedTeamsLimit, 0)
}

func (r *Report) setRowErrors(rowErrors []RowError) {
	sorted := make([]RowError, len(rowErrors))
	copy(sorted, rowErrors)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Line < sorted[j].Line
	})

	r.RowErrors = sorted[:min(len(sorted), reportRowErrorsLimit)]
	r.RowErrorsOverflow = max(len(sorted)-reportRowErrorsLimit, 0)
}

func withStoreTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
