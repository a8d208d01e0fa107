package async

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mxchen-dev/paperproof/internal/common"
	"github.com/mxchen-dev/paperproof/internal/record"
)

type fakeVerifier struct {
	mu     sync.Mutex
	calls  int
	reqIDs []string
}

func (f *fakeVerifier) Verify(ctx context.Context, ref *record.Reference) record.Outcome {
	f.mu.Lock()
	f.calls++
	f.reqIDs = append(f.reqIDs, common.RequestIDFromContext(ctx))
	f.mu.Unlock()
	return record.Outcome{
		Reference: *ref,
		Overall:   record.Matches{Title: true},
	}
}

func writeMetadata(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	body := `{"title": "A sufficiently long paper title", "firstAuthor": "Jichen Tian", "files": {"mainPdf": "missing.pdf"}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestQueueDrainsAllJobs(t *testing.T) {
	dir := t.TempDir()
	verifier := &fakeVerifier{}
	q := NewVerifyQueue(verifier, nil, WithWorkers(1), WithQueueSize(8))

	for i := 0; i < 3; i++ {
		q.Enqueue(NewJob(writeMetadata(t, dir, "meta"+string(rune('a'+i))+".json")))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	assert.Equal(t, 3, verifier.calls)
	outcomes := q.Outcomes()
	require.Len(t, outcomes, 3)
	for _, o := range outcomes {
		assert.True(t, o.Overall.Title)
	}
}

func TestQueueRecordsLoadFailures(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{broken`), 0o644))

	verifier := &fakeVerifier{}
	q := NewVerifyQueue(verifier, nil)
	q.Enqueue(NewJob(bad))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	assert.Equal(t, 0, verifier.calls)
	outcomes := q.Outcomes()
	require.Len(t, outcomes, 1)
	require.NotEmpty(t, outcomes[0].Errors)
	assert.Equal(t, bad, outcomes[0].Reference.SourcePath)
}

func TestJobRequestIDReachesVerifier(t *testing.T) {
	dir := t.TempDir()
	verifier := &fakeVerifier{}
	q := NewVerifyQueue(verifier, nil)

	job := NewJob(writeMetadata(t, dir, "meta.json"))
	q.Enqueue(job)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	require.Len(t, verifier.reqIDs, 1)
	assert.Equal(t, job.ID.String(), verifier.reqIDs[0])
}

func TestShutdownDuringEnqueueDoesNotPanic(t *testing.T) {
	verifier := &fakeVerifier{}
	q := NewVerifyQueue(verifier, nil, WithWorkers(2), WithQueueSize(1))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			q.Enqueue(NewJob("/nonexistent/meta.json"))
		}
	}()

	time.Sleep(5 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)
	wg.Wait()
}

func TestEnqueueAfterShutdownIsNoOp(t *testing.T) {
	verifier := &fakeVerifier{}
	q := NewVerifyQueue(verifier, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	q.Shutdown(ctx)

	q.Enqueue(NewJob("/tmp/whatever.json"))
	assert.Empty(t, q.Outcomes())
}
