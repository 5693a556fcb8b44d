package sync

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/listing-sync/internal/errors"
	"github.com/listing-sync/internal/feed"
	"github.com/listing-sync/internal/models"
)

type fakeFetcher struct {
	total      int
	countErr   error
	page       []feed.Property
	pageErr    error
	countCalls int
	pageCalls  int
	gotOffset  int
	gotTop     int
}

func (f *fakeFetcher) FetchCount(ctx context.Context) (int, error) {
	f.countCalls++
	return f.total, f.countErr
}

func (f *fakeFetcher) FetchPage(ctx context.Context, offset, top int) ([]feed.Property, error) {
	f.pageCalls++
	f.gotOffset = offset
	f.gotTop = top
	return f.page, f.pageErr
}

type fakeCursorStore struct {
	offset   int
	getErr   error
	setErr   error
	setCalls int
}

func (s *fakeCursorStore) Get(ctx context.Context, jobName string) (int, error) {
	return s.offset, s.getErr
}

func (s *fakeCursorStore) Set(ctx context.Context, jobName string, offset int) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.setCalls++
	s.offset = offset
	return nil
}

type fakeWriter struct {
	written []string
	failIDs map[string]bool
}

func (w *fakeWriter) Upsert(ctx context.Context, listing *models.Listing) error {
	if w.failIDs[listing.ListingID] {
		return errors.NewDatabaseError("upsert listing", stderrors.New("constraint violation"))
	}
	w.written = append(w.written, listing.ListingID)
	return nil
}

type fakeLocker struct {
	held     bool
	err      error
	released bool
}

func (l *fakeLocker) TryAcquire(ctx context.Context, jobName string) (func(), bool, error) {
	if l.err != nil {
		return nil, false, l.err
	}
	if l.held {
		return nil, false, nil
	}
	return func() { l.released = true }, true, nil
}

func pageOf(keys ...string) []feed.Property {
	page := make([]feed.Property, len(keys))
	for i := range keys {
		k := keys[i]
		page[i].ListingKey = &k
	}
	return page
}

func newTestRunner(t *testing.T, fetcher *fakeFetcher, cursors *fakeCursorStore, writer *fakeWriter, locker Locker) *Runner {
	t.Helper()
	r, err := NewRunner(&RunnerConfig{
		JobName:  "insert_property",
		PageSize: 200,
		Fetcher:  fetcher,
		Cursors:  cursors,
		Writer:   writer,
		Locker:   locker,
	})
	if err != nil {
		t.Fatalf("failed to create runner: %v", err)
	}
	return r
}

func TestNewRunnerValidation(t *testing.T) {
	fetcher := &fakeFetcher{}
	cursors := &fakeCursorStore{}
	writer := &fakeWriter{}

	tests := []struct {
		name string
		cfg  *RunnerConfig
	}{
		{name: "nil fetcher", cfg: &RunnerConfig{JobName: "j", Cursors: cursors, Writer: writer}},
		{name: "nil cursor store", cfg: &RunnerConfig{JobName: "j", Fetcher: fetcher, Writer: writer}},
		{name: "nil writer", cfg: &RunnerConfig{JobName: "j", Fetcher: fetcher, Cursors: cursors}},
		{name: "empty job name", cfg: &RunnerConfig{Fetcher: fetcher, Cursors: cursors, Writer: writer}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRunner(tt.cfg); err == nil {
				t.Error("expected constructor error")
			}
		})
	}
}

func TestRunFirstPage(t *testing.T) {
	fetcher := &fakeFetcher{total: 450, page: pageOf("SR1", "SR2", "SR3")}
	cursors := &fakeCursorStore{offset: 0}
	writer := &fakeWriter{}

	r := newTestRunner(t, fetcher, cursors, writer, nil)

	report, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fetcher.gotOffset != 0 || fetcher.gotTop != 200 {
		t.Errorf("expected window (0, 200), got (%d, %d)", fetcher.gotOffset, fetcher.gotTop)
	}
	if report.Upserted != 3 || report.Failed != 0 {
		t.Errorf("expected 3 upserted 0 failed, got %d/%d", report.Upserted, report.Failed)
	}
	if report.NextOffset != 200 {
		t.Errorf("expected next offset 200, got %d", report.NextOffset)
	}
	if cursors.offset != 200 {
		t.Errorf("expected persisted cursor 200, got %d", cursors.offset)
	}
}

func TestRunFinalPageWraps(t *testing.T) {
	fetcher := &fakeFetcher{total: 450, page: pageOf("SR401")}
	cursors := &fakeCursorStore{offset: 400}
	writer := &fakeWriter{}

	r := newTestRunner(t, fetcher, cursors, writer, nil)

	report, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fetcher.gotOffset != 400 {
		t.Errorf("expected fetch at offset 400, got %d", fetcher.gotOffset)
	}
	if report.NextOffset != 0 {
		t.Errorf("expected cursor to wrap to 0, got %d", report.NextOffset)
	}
	if cursors.offset != 0 {
		t.Errorf("expected persisted cursor 0, got %d", cursors.offset)
	}
}

func TestRunStaleCursorClamped(t *testing.T) {
	// The remote set shrank below the stored cursor; the run restarts from 0.
	fetcher := &fakeFetcher{total: 450, page: pageOf("SR1")}
	cursors := &fakeCursorStore{offset: 9000}
	writer := &fakeWriter{}

	r := newTestRunner(t, fetcher, cursors, writer, nil)

	report, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Offset != 0 {
		t.Errorf("expected stale cursor clamped to 0, got %d", report.Offset)
	}
	if fetcher.gotOffset != 0 {
		t.Errorf("expected fetch at offset 0, got %d", fetcher.gotOffset)
	}
}

func TestRunZeroTotalNoSideEffects(t *testing.T) {
	fetcher := &fakeFetcher{total: 0}
	cursors := &fakeCursorStore{offset: 200}
	writer := &fakeWriter{}

	r := newTestRunner(t, fetcher, cursors, writer, nil)

	report, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fetcher.pageCalls != 0 {
		t.Error("empty feed must not trigger a page fetch")
	}
	if cursors.setCalls != 0 || cursors.offset != 200 {
		t.Error("empty feed must leave the cursor untouched")
	}
	if len(writer.written) != 0 {
		t.Error("empty feed must not write listings")
	}
	if report.Upserted != 0 || report.Failed != 0 {
		t.Errorf("expected empty report, got %d/%d", report.Upserted, report.Failed)
	}
}

func TestRunPartialFailureIsolation(t *testing.T) {
	fetcher := &fakeFetcher{total: 450, page: pageOf("SR1", "SR2", "SR3")}
	cursors := &fakeCursorStore{offset: 0}
	writer := &fakeWriter{failIDs: map[string]bool{"SR2": true}}

	r := newTestRunner(t, fetcher, cursors, writer, nil)

	report, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("one bad record must not abort the run: %v", err)
	}

	if report.Upserted != 2 || report.Failed != 1 {
		t.Errorf("expected 2 upserted 1 failed, got %d/%d", report.Upserted, report.Failed)
	}
	if len(writer.written) != 2 {
		t.Errorf("expected 2 records written, got %d", len(writer.written))
	}
	if cursors.offset != 200 {
		t.Error("cursor must still advance past a page with record failures")
	}
}

func TestRunEmptyPageStillAdvances(t *testing.T) {
	// Count and page queries can disagree under upstream churn.
	fetcher := &fakeFetcher{total: 450, page: nil}
	cursors := &fakeCursorStore{offset: 200}
	writer := &fakeWriter{}

	r := newTestRunner(t, fetcher, cursors, writer, nil)

	report, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Upserted != 0 || report.Failed != 0 {
		t.Errorf("expected empty page report, got %d/%d", report.Upserted, report.Failed)
	}
	if cursors.offset != 400 {
		t.Errorf("expected cursor to advance to 400, got %d", cursors.offset)
	}
}

func TestRunCountFailureLeavesCursor(t *testing.T) {
	fetcher := &fakeFetcher{countErr: fmt.Errorf("HTTP 502")}
	cursors := &fakeCursorStore{offset: 200}
	writer := &fakeWriter{}

	r := newTestRunner(t, fetcher, cursors, writer, nil)

	_, err := r.Run(context.Background())
	if err == nil {
		t.Fatal("expected count failure to abort the run")
	}
	if !errors.IsCategory(err, errors.CategoryUpstream) {
		t.Errorf("expected upstream category, got %v", err)
	}
	if cursors.setCalls != 0 {
		t.Error("failed run must leave the cursor untouched")
	}
}

func TestRunPageFailureLeavesCursor(t *testing.T) {
	fetcher := &fakeFetcher{total: 450, pageErr: fmt.Errorf("HTTP 504")}
	cursors := &fakeCursorStore{offset: 200}
	writer := &fakeWriter{}

	r := newTestRunner(t, fetcher, cursors, writer, nil)

	_, err := r.Run(context.Background())
	if err == nil {
		t.Fatal("expected page failure to abort the run")
	}
	if !errors.IsCategory(err, errors.CategoryUpstream) {
		t.Errorf("expected upstream category, got %v", err)
	}
	if cursors.setCalls != 0 || len(writer.written) != 0 {
		t.Error("failed fetch must not write or move the cursor")
	}
}

func TestRunLockHeld(t *testing.T) {
	fetcher := &fakeFetcher{total: 450, page: pageOf("SR1")}
	cursors := &fakeCursorStore{}
	writer := &fakeWriter{}
	locker := &fakeLocker{held: true}

	r := newTestRunner(t, fetcher, cursors, writer, locker)

	_, err := r.Run(context.Background())
	if err == nil {
		t.Fatal("expected run-in-progress error")
	}
	if !errors.IsCategory(err, errors.CategoryConflict) {
		t.Errorf("expected conflict category, got %v", err)
	}
	if fetcher.countCalls != 0 {
		t.Error("locked run must not touch the feed")
	}
}

func TestRunLockReleased(t *testing.T) {
	fetcher := &fakeFetcher{total: 450, page: pageOf("SR1")}
	cursors := &fakeCursorStore{}
	writer := &fakeWriter{}
	locker := &fakeLocker{}

	r := newTestRunner(t, fetcher, cursors, writer, locker)

	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !locker.released {
		t.Error("expected the run lock to be released")
	}
}

func TestRunReportIdentity(t *testing.T) {
	fetcher := &fakeFetcher{total: 10, page: pageOf("SR1")}
	cursors := &fakeCursorStore{}
	writer := &fakeWriter{}

	r := newTestRunner(t, fetcher, cursors, writer, nil)

	report, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.RunID == "" {
		t.Error("expected a run id")
	}
	if report.JobName != "insert_property" {
		t.Errorf("unexpected job name %q", report.JobName)
	}
	if report.Total != 10 {
		t.Errorf("expected total 10, got %d", report.Total)
	}
}
