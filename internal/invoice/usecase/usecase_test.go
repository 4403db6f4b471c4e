package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phoenixsheppard28/vendorcafe-csv/internal/invoice/entity"
	"github.com/phoenixsheppard28/vendorcafe-csv/internal/pkg/pkgerror"
)

type testStore struct {
	mu       sync.Mutex
	sessions map[string]entity.Session
}

func newTestStore() *testStore {
	return &testStore{sessions: make(map[string]entity.Session)}
}

func (s *testStore) Get(ctx context.Context, sessionID string) (entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return entity.Session{}, pkgerror.ErrNotFound
	}
	return sess, nil
}

func (s *testStore) Update(ctx context.Context, sessionID string, fn func(s *entity.Session) error) (entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = entity.Session{ID: sessionID}
	}
	if err := fn(&sess); err != nil {
		return entity.Session{}, err
	}
	s.sessions[sessionID] = sess
	return sess, nil
}

type testPublisher struct {
	mu     sync.Mutex
	events []entity.AggregationEvent
	err    error
}

func (p *testPublisher) Publish(ctx context.Context, event entity.AggregationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

type testID struct {
	mu sync.Mutex
	n  int
}

func (t *testID) Generate() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.n++
	return fmt.Sprintf("id-%d", t.n)
}

type testRunID struct {
	mu sync.Mutex
	n  int64
}

func (t *testRunID) Generate() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.n++
	return t.n
}

type fixedClock struct {
	now time.Time
}

func (f fixedClock) Now() time.Time {
	return f.now
}

func newTestUsecase(opts Options) (*Usecase, *testStore, *testPublisher) {
	store := newTestStore()
	events := &testPublisher{}
	uc := New(Dependency{
		Store:   store,
		Events:  events,
		Clock:   fixedClock{now: time.Unix(1_760_000_000, 0)},
		ID:      &testID{},
		RunID:   &testRunID{},
		Options: opts,
	})
	return uc, store, events
}

func csvFile(name, content string) entity.CandidateFile {
	return entity.CandidateFile{
		Name:      name,
		Size:      int64(len(content)),
		MediaType: "text/csv",
		Content:   []byte(content),
	}
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var perr *pkgerror.Error
	require.ErrorAs(t, err, &perr)
	return perr.StatusCode()
}

func TestAggregateHappyPath(t *testing.T) {
	uc, store, events := newTestUsecase(Options{})
	ctx := context.Background()

	snap, err := uc.SubmitDropped(ctx, "s-1", []entity.CandidateFile{csvFile("pending.csv", "Invoice Amount\n10.50\n20\n")})
	require.NoError(t, err)
	require.True(t, snap.CanAggregate)
	require.NotNil(t, snap.File)
	assert.Equal(t, "pending.csv", snap.File.Name)
	assert.Equal(t, "0.0 KB", snap.File.SizeLabel)

	res, err := uc.Aggregate(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, 30.5, res.Total)
	assert.Equal(t, "$30.50", res.Display)
	assert.Equal(t, int64(1), res.RunID)
	assert.Equal(t, int64(2), res.Rows)
	assert.True(t, res.ColumnFound)
	assert.Equal(t, "Invoice Amount", res.Column)

	sess, err := store.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.True(t, sess.SummaryOpen)
	require.NotNil(t, sess.Result)
	assert.Equal(t, "$30.50", sess.Result.Display)
	_, held := sess.Intake.Held()
	assert.False(t, held, "held file should be cleared after a successful aggregation")

	require.Len(t, events.events, 1)
	ev := events.events[0]
	assert.Equal(t, entity.EventKindCompleted, ev.Kind)
	assert.Equal(t, "s-1", ev.SessionID)
	assert.Equal(t, int64(1), ev.RunID)
	assert.Equal(t, 30.5, ev.Total)
	assert.NotEmpty(t, ev.EventID)
}

func TestAggregateCoercesNonNumeric(t *testing.T) {
	uc, _, _ := newTestUsecase(Options{})
	ctx := context.Background()

	file := csvFile("pending.csv", "Invoice Amount\nabc\n15\n")
	_, err := uc.SubmitPicked(ctx, "s-1", &file)
	require.NoError(t, err)

	res, err := uc.Aggregate(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, 15.0, res.Total)
	assert.Equal(t, "$15.00", res.Display)
	assert.Equal(t, int64(1), res.Coerced)
}

func TestAggregateReadsLeadingNumber(t *testing.T) {
	uc, _, _ := newTestUsecase(Options{})

	res, err := uc.Total(context.Background(), csvFile("pending.csv", "Invoice Amount\n12.50 USD\n\"1,234.56\"\n12abc\n"))
	require.NoError(t, err)
	assert.InDelta(t, 25.5, res.Total, 1e-9)
	assert.Equal(t, "$25.50", res.Display)
	assert.Equal(t, int64(0), res.Coerced)
}

func TestSubmitDroppedRejectsNonCSV(t *testing.T) {
	uc, _, _ := newTestUsecase(Options{})
	ctx := context.Background()

	_, err := uc.SubmitDropped(ctx, "s-1", []entity.CandidateFile{{Name: "data.txt", MediaType: "text/plain", Content: []byte("x")}})
	require.ErrorIs(t, err, ErrUnsupportedFileType)
	assert.Equal(t, http.StatusUnsupportedMediaType, statusOf(t, err))

	snap, err := uc.State(ctx, "s-1")
	require.NoError(t, err)
	assert.False(t, snap.CanAggregate, "trigger must stay disabled")
	assert.Nil(t, snap.File)
}

func TestSubmitPickedRejectKeepsHeldFile(t *testing.T) {
	uc, _, _ := newTestUsecase(Options{})
	ctx := context.Background()

	first := csvFile("first.csv", "Invoice Amount\n1\n")
	_, err := uc.SubmitPicked(ctx, "s-1", &first)
	require.NoError(t, err)

	_, err = uc.SubmitPicked(ctx, "s-1", nil)
	require.ErrorIs(t, err, ErrUnsupportedFileType)

	snap, err := uc.State(ctx, "s-1")
	require.NoError(t, err)
	require.NotNil(t, snap.File, "held file should survive a rejected pick")
	assert.Equal(t, "first.csv", snap.File.Name)
}

func TestAggregateParseFailureKeepsFile(t *testing.T) {
	uc, store, events := newTestUsecase(Options{})
	ctx := context.Background()

	file := csvFile("broken.csv", "Invoice Amount\n\xc3\x28\n")
	_, err := uc.SubmitPicked(ctx, "s-1", &file)
	require.NoError(t, err)

	_, err = uc.Aggregate(ctx, "s-1")
	require.ErrorIs(t, err, ErrParseFailure)
	assert.Equal(t, http.StatusUnprocessableEntity, statusOf(t, err))

	sess, err := store.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.False(t, sess.SummaryOpen)
	assert.Nil(t, sess.Result)
	assert.NotEmpty(t, sess.LastError)
	held, ok := sess.Intake.Held()
	require.True(t, ok, "file should stay held for a retry")
	assert.Equal(t, "broken.csv", held.Name)

	require.Len(t, events.events, 1)
	assert.Equal(t, entity.EventKindFailed, events.events[0].Kind)
	assert.NotEmpty(t, events.events[0].Err)

	fixed := csvFile("fixed.csv", "Invoice Amount\n2\n")
	snap, err := uc.SubmitPicked(ctx, "s-1", &fixed)
	require.NoError(t, err)
	assert.Empty(t, snap.LastError, "a new file should clear the error")
}

func TestAggregateWithoutFile(t *testing.T) {
	uc, _, events := newTestUsecase(Options{})

	_, err := uc.Aggregate(context.Background(), "s-1")
	require.ErrorIs(t, err, ErrNoFile)
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
	assert.Empty(t, events.events, "no run means no event")
}

func TestAggregateStrictColumn(t *testing.T) {
	uc, _, _ := newTestUsecase(Options{StrictColumn: true})
	ctx := context.Background()

	file := csvFile("other.csv", "Vendor,Amount\nacme,3\n")
	_, err := uc.SubmitPicked(ctx, "s-1", &file)
	require.NoError(t, err)
	_, err = uc.Aggregate(ctx, "s-1")
	require.ErrorIs(t, err, ErrParseFailure)

	lenient, _, _ := newTestUsecase(Options{})
	_, err = lenient.SubmitPicked(ctx, "s-1", &file)
	require.NoError(t, err)
	res, err := lenient.Aggregate(ctx, "s-1")
	require.NoError(t, err)
	assert.False(t, res.ColumnFound)
	assert.Equal(t, 0.0, res.Total)
	assert.Equal(t, "$0.00", res.Display)
}

func TestDismissResetsWidget(t *testing.T) {
	uc, _, _ := newTestUsecase(Options{})
	ctx := context.Background()

	file := csvFile("pending.csv", "Invoice Amount\n5\n")
	_, err := uc.SubmitPicked(ctx, "s-1", &file)
	require.NoError(t, err)
	_, err = uc.Aggregate(ctx, "s-1")
	require.NoError(t, err)

	snap, err := uc.Dismiss(ctx, "s-1")
	require.NoError(t, err)
	assert.False(t, snap.SummaryOpen)
	assert.Nil(t, snap.Result)
	assert.Nil(t, snap.File)
	assert.False(t, snap.CanAggregate)
}

func TestClearTwiceEqualsOnce(t *testing.T) {
	uc, _, _ := newTestUsecase(Options{})
	ctx := context.Background()

	file := csvFile("pending.csv", "Invoice Amount\n5\n")
	_, err := uc.SubmitPicked(ctx, "s-1", &file)
	require.NoError(t, err)

	once, err := uc.Clear(ctx, "s-1")
	require.NoError(t, err)
	twice, err := uc.Clear(ctx, "s-1")
	require.NoError(t, err)
	assert.Nil(t, once.File)
	assert.Equal(t, once, twice)
}

func TestStateUnknownSession(t *testing.T) {
	uc, _, _ := newTestUsecase(Options{})

	snap, err := uc.State(context.Background(), "fresh")
	require.NoError(t, err)
	assert.Equal(t, "fresh", snap.SessionID)
	assert.Nil(t, snap.File)
	assert.False(t, snap.SummaryOpen)

	_, err = uc.State(context.Background(), "")
	assert.Error(t, err, "empty session id")
}

func TestTotalIsStateless(t *testing.T) {
	uc, store, events := newTestUsecase(Options{CurrencySymbol: "$"})
	ctx := context.Background()

	res, err := uc.Total(ctx, csvFile("a.csv", "Vendor,Invoice Amount\nacme,1000\nbeta,234.56\n"))
	require.NoError(t, err)
	assert.Equal(t, "$1,234.56", res.Display)
	assert.Empty(t, store.sessions, "total must not create sessions")
	require.Len(t, events.events, 1)
	assert.Empty(t, events.events[0].SessionID)

	_, err = uc.Total(ctx, entity.CandidateFile{Name: "notes.txt", MediaType: "text/plain"})
	require.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestPublishFailureDoesNotFailAggregation(t *testing.T) {
	uc, _, events := newTestUsecase(Options{})
	events.err = errors.New("bus full")

	res, err := uc.Total(context.Background(), csvFile("a.csv", "Invoice Amount\n1\n"))
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Total)
}

func TestAggregateSerializesPerSession(t *testing.T) {
	uc, _, events := newTestUsecase(Options{})
	ctx := context.Background()

	file := csvFile("pending.csv", "Invoice Amount\n5\n")
	_, err := uc.SubmitPicked(ctx, "s-1", &file)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Aggregate(ctx, "s-1")
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		require.ErrorIs(t, err, ErrNoFile)
	}
	assert.Equal(t, 1, ok, "exactly one aggregation runs")
	assert.Len(t, events.events, 1)
}

func TestSizeLabel(t *testing.T) {
	assert.Equal(t, "0.0 KB", sizeLabel(0))
	assert.Equal(t, "1.0 KB", sizeLabel(1024))
	assert.Equal(t, "12.3 KB", sizeLabel(12595))
	assert.Equal(t, "0.0 KB", sizeLabel(-5))
}
