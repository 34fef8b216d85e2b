package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	perr "sentimeter/internal/platform/errors"

	"sentimeter/internal/modkit/repokit"
	dom "sentimeter/internal/services/batch/domain"
	"sentimeter/internal/services/batch/repo"
)

// fakeTx satisfies repokit.TxRunner; the fake repo never touches it
type fakeTx struct{}

func (fakeTx) Exec(context.Context, string, ...any) (repokit.CommandTag, error) { return nil, nil }
func (fakeTx) Query(context.Context, string, ...any) (repokit.Rows, error)      { return nil, nil }
func (fakeTx) QueryRow(context.Context, string, ...any) repokit.Row             { return nil }
func (fakeTx) Tx(ctx context.Context, fn func(q repokit.Queryer) error) error   { return fn(fakeTx{}) }

type fakeRepo struct {
	jobs    map[string]repo.RowJob
	stamped map[string]time.Time // mirrors updated_at for the lease check

	createErr   error
	completeErr error

	completed map[string][]byte
	failed    map[string]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		jobs:      map[string]repo.RowJob{},
		stamped:   map[string]time.Time{},
		completed: map[string][]byte{},
		failed:    map[string]string{},
	}
}

func (f *fakeRepo) CreateJob(_ context.Context, taskID, userID, taskType string, payload []byte) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.jobs[taskID] = repo.RowJob{
		TaskID: taskID, UserID: userID, TaskType: taskType,
		Status: dom.StatusPending, Payload: payload,
		CreatedAt: "2026-01-02T03:04:05Z", UpdatedAt: "2026-01-02T03:04:05Z",
	}
	f.stamped[taskID] = time.Now()
	return nil
}

func (f *fakeRepo) ClaimJob(_ context.Context, taskID string, lease time.Duration) (repo.RowJob, bool, error) {
	j, ok := f.jobs[taskID]
	if !ok {
		return repo.RowJob{}, false, nil
	}
	lapsed := j.Status == dom.StatusProcessing && time.Since(f.stamped[taskID]) >= lease
	if j.Status != dom.StatusPending && !lapsed {
		return repo.RowJob{}, false, nil
	}
	j.Status = dom.StatusProcessing
	f.jobs[taskID] = j
	f.stamped[taskID] = time.Now()
	return j, true, nil
}

func (f *fakeRepo) JobStatus(_ context.Context, taskID string) (string, error) {
	j, ok := f.jobs[taskID]
	if !ok {
		return "", perr.NotFoundf("Task not found")
	}
	return j.Status, nil
}

func (f *fakeRepo) CompleteJob(_ context.Context, taskID string, result []byte) error {
	if f.completeErr != nil {
		return f.completeErr
	}
	j, ok := f.jobs[taskID]
	if !ok || j.Status != dom.StatusProcessing {
		return nil
	}
	j.Status = dom.StatusCompleted
	j.Result = result
	f.jobs[taskID] = j
	f.completed[taskID] = result
	return nil
}

func (f *fakeRepo) FailJob(_ context.Context, taskID, errorMessage string) error {
	j, ok := f.jobs[taskID]
	if !ok || j.Status != dom.StatusProcessing {
		return nil
	}
	j.Status = dom.StatusFailed
	j.ErrorMessage = &errorMessage
	f.jobs[taskID] = j
	f.failed[taskID] = errorMessage
	return nil
}

func (f *fakeRepo) GetOwned(_ context.Context, userID, taskID string) (repo.RowJob, error) {
	j, ok := f.jobs[taskID]
	if !ok || j.UserID != userID {
		return repo.RowJob{}, perr.NotFoundf("Task not found")
	}
	return j, nil
}

func (f *fakeRepo) StalePending(context.Context, time.Duration, int) ([]repo.RowJob, error) {
	return nil, nil
}

type fakeBinder struct{ r repo.Repo }

func (b fakeBinder) Bind(repokit.Queryer) repo.Repo { return b.r }

type fakeEnqueuer struct {
	err       error
	typenames []string
	payloads  [][]byte
}

func (f *fakeEnqueuer) Enqueue(_ context.Context, typename string, payload []byte) error {
	if f.err != nil {
		return f.err
	}
	f.typenames = append(f.typenames, typename)
	f.payloads = append(f.payloads, payload)
	return nil
}

func (f *fakeEnqueuer) Close() error { return nil }

type fakeScorer struct{}

func (f fakeScorer) Analyze(text string) (string, float64) {
	if strings.Contains(text, "bad") {
		return "negative", 0.9
	}
	return "positive", 0.8
}

func TestSubmit_PersistsThenEnqueues(t *testing.T) {
	t.Parallel()

	fr := newFakeRepo()
	enq := &fakeEnqueuer{}
	s := New(fakeTx{}, fakeBinder{r: fr}, enq, nil, time.Minute)

	taskID, err := s.Submit(context.Background(), "user-1", []string{"one", "two"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	j, ok := fr.jobs[taskID]
	if !ok {
		t.Fatalf("job row not created for %s", taskID)
	}
	if j.Status != dom.StatusPending || j.TaskType != dom.TaskTypeBatchAnalysis {
		t.Fatalf("unexpected row: %+v", j)
	}
	var texts []string
	if err := json.Unmarshal(j.Payload, &texts); err != nil || len(texts) != 2 {
		t.Fatalf("payload = %s, err = %v", j.Payload, err)
	}

	if len(enq.typenames) != 1 || enq.typenames[0] != dom.TaskTypeBatchAnalysis {
		t.Fatalf("typenames = %v", enq.typenames)
	}
	var d dom.Dispatch
	if err := json.Unmarshal(enq.payloads[0], &d); err != nil {
		t.Fatalf("dispatch payload: %v", err)
	}
	if d.TaskID != taskID {
		t.Fatalf("dispatch task id = %s, want %s", d.TaskID, taskID)
	}
}

func TestSubmit_EnqueueFailureSurfacesAndLeavesPendingRow(t *testing.T) {
	t.Parallel()

	fr := newFakeRepo()
	enq := &fakeEnqueuer{err: perr.Unavailablef("redis down")}
	s := New(fakeTx{}, fakeBinder{r: fr}, enq, nil, time.Minute)

	_, err := s.Submit(context.Background(), "user-1", []string{"one"})
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("err = %v, want unavailable", err)
	}
	// the orphaned pending row stays behind for stale detection
	if len(fr.jobs) != 1 {
		t.Fatalf("jobs = %d, want the orphan to remain", len(fr.jobs))
	}
	for _, j := range fr.jobs {
		if j.Status != dom.StatusPending {
			t.Fatalf("orphan status = %s, want pending", j.Status)
		}
	}
}

func TestSubmit_NoQueueConfigured(t *testing.T) {
	t.Parallel()

	s := New(fakeTx{}, fakeBinder{r: newFakeRepo()}, nil, nil, time.Minute)
	if _, err := s.Submit(context.Background(), "u", []string{"x"}); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("err = %v, want unavailable", err)
	}
}

func TestOwned_ScopesToOwner(t *testing.T) {
	t.Parallel()

	fr := newFakeRepo()
	enq := &fakeEnqueuer{}
	s := New(fakeTx{}, fakeBinder{r: fr}, enq, nil, time.Minute)

	taskID, err := s.Submit(context.Background(), "owner", []string{"hello"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	j, err := s.Owned(context.Background(), "owner", taskID)
	if err != nil {
		t.Fatalf("Owned: %v", err)
	}
	if j.TaskID != taskID || j.Status != dom.StatusPending {
		t.Fatalf("job = %+v", j)
	}
	if len(j.Payload) != 1 || j.Payload[0] != "hello" {
		t.Fatalf("payload = %v", j.Payload)
	}

	// another user's lookup is indistinguishable from a missing id
	_, err = s.Owned(context.Background(), "stranger", taskID)
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("cross-owner err = %v, want not found", err)
	}
	if pe, ok := perr.As(err); ok && pe.ToWire().Detail != "Task not found" {
		t.Fatalf("detail = %q", pe.ToWire().Detail)
	}
}

func TestHandleDispatch_ScoresAndCompletes(t *testing.T) {
	t.Parallel()

	fr := newFakeRepo()
	enq := &fakeEnqueuer{}
	s := New(fakeTx{}, fakeBinder{r: fr}, enq, fakeScorer{}, time.Minute)

	taskID, err := s.Submit(context.Background(), "u", []string{"good day", "bad day"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if err := s.HandleDispatch(context.Background(), enq.payloads[0]); err != nil {
		t.Fatalf("HandleDispatch: %v", err)
	}
	if fr.jobs[taskID].Status != dom.StatusCompleted {
		t.Fatalf("status = %s, want completed", fr.jobs[taskID].Status)
	}

	var results []dom.ItemResult
	if err := json.Unmarshal(fr.completed[taskID], &results); err != nil {
		t.Fatalf("results: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Sentiment != "positive" || results[1].Sentiment != "negative" {
		t.Fatalf("sentiments = %s, %s", results[0].Sentiment, results[1].Sentiment)
	}
	if results[0].Text != "good day" || results[0].Confidence != 0.8 {
		t.Fatalf("first = %+v", results[0])
	}
}

func TestHandleDispatch_RedeliveryIsNoOp(t *testing.T) {
	t.Parallel()

	fr := newFakeRepo()
	enq := &fakeEnqueuer{}
	s := New(fakeTx{}, fakeBinder{r: fr}, enq, fakeScorer{}, time.Minute)

	taskID, err := s.Submit(context.Background(), "u", []string{"good"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	msg := enq.payloads[0]

	if err := s.HandleDispatch(context.Background(), msg); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	first := fr.completed[taskID]

	// second delivery finds a terminal row and acks without rewriting it
	if err := s.HandleDispatch(context.Background(), msg); err != nil {
		t.Fatalf("redelivery: %v", err)
	}
	if string(fr.completed[taskID]) != string(first) {
		t.Fatalf("result rewritten on redelivery")
	}
	if fr.jobs[taskID].Status != dom.StatusCompleted {
		t.Fatalf("status = %s", fr.jobs[taskID].Status)
	}
}

func TestHandleDispatch_ReclaimsAbandonedJob(t *testing.T) {
	t.Parallel()

	fr := newFakeRepo()
	enq := &fakeEnqueuer{}
	s := New(fakeTx{}, fakeBinder{r: fr}, enq, fakeScorer{}, time.Minute)

	taskID, err := s.Submit(context.Background(), "u", []string{"good"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	// a worker claimed the job and died before any terminal transition;
	// its lease stamp is well past the lease window
	j := fr.jobs[taskID]
	j.Status = dom.StatusProcessing
	fr.jobs[taskID] = j
	fr.stamped[taskID] = time.Now().Add(-time.Hour)

	if err := s.HandleDispatch(context.Background(), enq.payloads[0]); err != nil {
		t.Fatalf("redelivery after crash: %v", err)
	}
	if fr.jobs[taskID].Status != dom.StatusCompleted {
		t.Fatalf("status = %s, want completed after re-claim", fr.jobs[taskID].Status)
	}
	if len(fr.completed[taskID]) == 0 {
		t.Fatalf("re-claimed job produced no result")
	}
}

func TestHandleDispatch_LiveLeaseRedelivers(t *testing.T) {
	t.Parallel()

	fr := newFakeRepo()
	enq := &fakeEnqueuer{}
	s := New(fakeTx{}, fakeBinder{r: fr}, enq, fakeScorer{}, time.Minute)

	taskID, err := s.Submit(context.Background(), "u", []string{"good"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	// another worker holds a fresh lease; the message must stay alive so a
	// crash there is recovered once the lease lapses
	j := fr.jobs[taskID]
	j.Status = dom.StatusProcessing
	fr.jobs[taskID] = j
	fr.stamped[taskID] = time.Now()

	if err := s.HandleDispatch(context.Background(), enq.payloads[0]); err == nil {
		t.Fatalf("expected an error to keep the message redeliverable")
	}
	if fr.jobs[taskID].Status != dom.StatusProcessing {
		t.Fatalf("status = %s, want processing untouched", fr.jobs[taskID].Status)
	}
	if len(fr.completed[taskID]) != 0 {
		t.Fatalf("result written while lease held elsewhere")
	}
}

func TestHandleDispatch_UnreadableJobPayloadFails(t *testing.T) {
	t.Parallel()

	fr := newFakeRepo()
	s := New(fakeTx{}, fakeBinder{r: fr}, &fakeEnqueuer{}, fakeScorer{}, time.Minute)

	fr.jobs["t-1"] = repo.RowJob{
		TaskID: "t-1", UserID: "u", TaskType: dom.TaskTypeBatchAnalysis,
		Status: dom.StatusPending, Payload: []byte("{not json"),
	}
	msg, _ := json.Marshal(dom.Dispatch{TaskID: "t-1"})

	if err := s.HandleDispatch(context.Background(), msg); err != nil {
		t.Fatalf("HandleDispatch: %v", err)
	}
	if fr.jobs["t-1"].Status != dom.StatusFailed {
		t.Fatalf("status = %s, want failed", fr.jobs["t-1"].Status)
	}
	if fr.failed["t-1"] == "" {
		t.Fatalf("missing error message")
	}
}

func TestHandleDispatch_MalformedMessageAcks(t *testing.T) {
	t.Parallel()

	s := New(fakeTx{}, fakeBinder{r: newFakeRepo()}, &fakeEnqueuer{}, fakeScorer{}, time.Minute)
	if err := s.HandleDispatch(context.Background(), []byte("nope")); err != nil {
		t.Fatalf("err = %v, want ack", err)
	}
}
