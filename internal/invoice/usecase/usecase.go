package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phoenixsheppard28/vendorcafe-csv/internal/invoice/entity"
	"github.com/phoenixsheppard28/vendorcafe-csv/internal/pkg/pkgerror"
	"github.com/phoenixsheppard28/vendorcafe-csv/internal/pkg/pkgmoney"
	"github.com/phoenixsheppard28/vendorcafe-csv/internal/pkg/pkguid"
)

type Store interface {
	Get(ctx context.Context, sessionID string) (entity.Session, error)
	Update(ctx context.Context, sessionID string, fn func(s *entity.Session) error) (entity.Session, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.AggregationEvent) error
}

type Clock interface {
	Now() time.Time
}

type Dependency struct {
	Store   Store
	Events  EventPublisher
	Clock   Clock
	ID      pkguid.StringID
	RunID   pkguid.NumberID
	Options Options
}

type Usecase struct {
	store  Store
	events EventPublisher
	clock  Clock
	id     pkguid.StringID
	runID  pkguid.NumberID
	opts   Options
}

func New(dep Dependency) *Usecase {
	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	opts := dep.Options
	if opts.Column == "" {
		opts.Column = entity.DefaultColumn
	}
	if opts.CurrencySymbol == "" {
		opts.CurrencySymbol = pkgmoney.DefaultSymbol
	}

	return &Usecase{
		store:  dep.Store,
		events: dep.Events,
		clock:  clock,
		id:     dep.ID,
		runID:  dep.RunID,
		opts:   opts,
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (u *Usecase) State(ctx context.Context, sessionID string) (Snapshot, error) {
	if sessionID == "" {
		return Snapshot{}, pkgerror.NewInvalidInput(errors.New("session id is required"))
	}

	s, err := u.store.Get(ctx, sessionID)
	if errors.Is(err, pkgerror.ErrNotFound) {
		return Snapshot{SessionID: sessionID}, nil
	}
	if err != nil {
		return Snapshot{}, normalizeErr(err)
	}

	return newSnapshot(s), nil
}

func (u *Usecase) SubmitDropped(ctx context.Context, sessionID string, files []entity.CandidateFile) (Snapshot, error) {
	return u.submit(ctx, sessionID, func(in *entity.Intake) (entity.CandidateFile, bool) {
		return in.SubmitDropped(files)
	})
}

func (u *Usecase) SubmitPicked(ctx context.Context, sessionID string, file *entity.CandidateFile) (Snapshot, error) {
	return u.submit(ctx, sessionID, func(in *entity.Intake) (entity.CandidateFile, bool) {
		return in.SubmitPicked(file)
	})
}

func (u *Usecase) submit(ctx context.Context, sessionID string, fn func(in *entity.Intake) (entity.CandidateFile, bool)) (Snapshot, error) {
	if sessionID == "" {
		return Snapshot{}, pkgerror.NewInvalidInput(errors.New("session id is required"))
	}

	s, err := u.store.Update(ctx, sessionID, func(s *entity.Session) error {
		held, ok := fn(&s.Intake)
		if !ok {
			return pkgerror.NewBusinessCause(ErrUnsupportedFileType, msgUnsupportedFileType, pkgerror.CodeUnsupportedMedia)
		}

		s.LastError = ""
		s.UpdatedAt = u.clock.Now()
		slog.InfoContext(ctx, "file staged", "session_id", sessionID, "file", held.Name, "size", held.Size)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrUnsupportedFileType) {
			slog.InfoContext(ctx, "submission ignored, no csv file", "session_id", sessionID)
		}
		return Snapshot{}, normalizeErr(err)
	}

	return newSnapshot(s), nil
}

func (u *Usecase) Clear(ctx context.Context, sessionID string) (Snapshot, error) {
	if sessionID == "" {
		return Snapshot{}, pkgerror.NewInvalidInput(errors.New("session id is required"))
	}

	s, err := u.store.Update(ctx, sessionID, func(s *entity.Session) error {
		s.Intake.Clear()
		s.LastError = ""
		s.UpdatedAt = u.clock.Now()
		return nil
	})
	if err != nil {
		return Snapshot{}, normalizeErr(err)
	}

	return newSnapshot(s), nil
}

// Aggregate totals the held file of a session. The session stays locked for
// the whole run, so a second request waits instead of aggregating twice.
//
// On success the result is stored, the summary opens and the held file is
// cleared. On a parse failure the file stays held so the user can retry.
func (u *Usecase) Aggregate(ctx context.Context, sessionID string) (entity.AggregationResult, error) {
	if sessionID == "" {
		return entity.AggregationResult{}, pkgerror.NewInvalidInput(errors.New("session id is required"))
	}

	var (
		result entity.AggregationResult
		file   entity.CandidateFile
		runErr error
	)

	_, err := u.store.Update(ctx, sessionID, func(s *entity.Session) error {
		held, ok := s.Intake.Held()
		if !ok {
			return pkgerror.NewBusinessCause(ErrNoFile, msgNoFile, pkgerror.CodeConflict)
		}
		file = held

		s.UpdatedAt = u.clock.Now()
		result, runErr = u.run(ctx, held)
		if runErr != nil {
			s.LastError = msgParseFailure
			return nil
		}

		res := result
		s.Result = &res
		s.SummaryOpen = true
		s.LastError = ""
		s.Intake.Clear()
		return nil
	})
	if err != nil {
		return entity.AggregationResult{}, normalizeErr(err)
	}

	u.publish(ctx, sessionID, file, result, runErr)

	if runErr != nil {
		return entity.AggregationResult{}, runErr
	}

	return result, nil
}

// Dismiss closes the summary and resets the widget to its empty state.
func (u *Usecase) Dismiss(ctx context.Context, sessionID string) (Snapshot, error) {
	if sessionID == "" {
		return Snapshot{}, pkgerror.NewInvalidInput(errors.New("session id is required"))
	}

	s, err := u.store.Update(ctx, sessionID, func(s *entity.Session) error {
		s.Dismiss()
		s.UpdatedAt = u.clock.Now()
		return nil
	})
	if err != nil {
		return Snapshot{}, normalizeErr(err)
	}

	return newSnapshot(s), nil
}

// Total aggregates a file without touching any session.
func (u *Usecase) Total(ctx context.Context, file entity.CandidateFile) (entity.AggregationResult, error) {
	if !file.IsCSV() {
		return entity.AggregationResult{}, pkgerror.NewBusinessCause(ErrUnsupportedFileType, msgUnsupportedFileType, pkgerror.CodeUnsupportedMedia)
	}

	result, err := u.run(ctx, file)
	u.publish(ctx, "", file, result, err)
	if err != nil {
		return entity.AggregationResult{}, err
	}

	return result, nil
}

func (u *Usecase) run(ctx context.Context, file entity.CandidateFile) (entity.AggregationResult, error) {
	result := entity.AggregationResult{
		FileName: file.Name,
		Column:   u.opts.Column,
	}
	if u.runID != nil {
		result.RunID = u.runID.Generate()
	}

	stats, err := aggregateCSV(ctx, file.Open(), aggregateOptions{
		column: u.opts.Column,
		strict: u.opts.StrictColumn,
	})
	if err != nil {
		slog.WarnContext(ctx, "aggregation failed", "run_id", result.RunID, "file", file.Name, "error", err)
		return result, pkgerror.NewBusinessCause(fmt.Errorf("%w: %w", ErrParseFailure, err), msgParseFailure, pkgerror.CodeUnprocessable)
	}

	result.Total = stats.total
	result.Display = pkgmoney.Format(u.opts.CurrencySymbol, stats.total)
	result.Rows = stats.rows
	result.Coerced = stats.coerced
	result.ColumnFound = stats.columnFound

	slog.InfoContext(ctx, "aggregation completed",
		"run_id", result.RunID,
		"file", file.Name,
		"rows", result.Rows,
		"coerced", result.Coerced,
		"total", result.Display,
	)

	return result, nil
}

func (u *Usecase) publish(ctx context.Context, sessionID string, file entity.CandidateFile, result entity.AggregationResult, runErr error) {
	if u.events == nil {
		return
	}

	event := entity.AggregationEvent{
		SessionID: sessionID,
		RunID:     result.RunID,
		Kind:      entity.EventKindCompleted,
		FileName:  file.Name,
		Total:     result.Total,
	}
	if u.id != nil {
		event.EventID = u.id.Generate()
	}
	if runErr != nil {
		event.Kind = entity.EventKindFailed
		event.Total = 0
		event.Err = errors.Unwrap(runErr).Error()
	}

	if err := u.events.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish event", "run_id", event.RunID, "event_id", event.EventID, "error", err)
	}
}

func normalizeErr(err error) error {
	var perr *pkgerror.Error
	if errors.As(err, &perr) {
		return perr
	}
	return pkgerror.NewServer(err)
}
