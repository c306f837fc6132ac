package pipeline

import (
	"testing"
	"time"

	"github.com/dgallion1/mindgest/internal/mindmap"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_DifferentInputs(t *testing.T) {
	h1 := ContentHashHex([]byte("aaa"))
	h2 := ContentHashHex([]byte("bbb"))
	if h1 == h2 {
		t.Error("expected different hashes for different inputs")
	}
}

func TestContentHashHex_EmptyInput(t *testing.T) {
	h := ContentHashHex([]byte{})
	// SHA-256 of empty input is well-known.
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if h != want {
		t.Errorf("expected hash %q, got %q", want, h)
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{
		ID:        "test-1",
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusParsing, "parsing"},
		{StatusGenerating, "generating"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_SetStatusFailed(t *testing.T) {
	job := &Job{
		ID:        "test-fail",
		Status:    StatusGenerating,
		UpdatedAt: time.Now(),
	}
	job.SetStatus(StatusFailed, "generating")
	if job.Status != StatusFailed {
		t.Errorf("expected status %q, got %q", StatusFailed, job.Status)
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("a.pdf: parse failed")
	job.AddError("b.docx: parse failed")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "a.pdf: parse failed" {
		t.Errorf("expected first error %q, got %q", "a.pdf: parse failed", snap.Progress.Errors[0])
	}
}

func TestJob_FileParsed(t *testing.T) {
	job := &Job{ID: "parsed-test", UpdatedAt: time.Now()}
	job.FileParsed(false)
	job.FileParsed(true)
	job.FileParsed(false)

	snap := job.Snapshot()
	if snap.Progress.FilesParsed != 3 {
		t.Errorf("expected 3 files parsed, got %d", snap.Progress.FilesParsed)
	}
	if snap.Progress.EmptyFiles != 1 {
		t.Errorf("expected 1 empty file, got %d", snap.Progress.EmptyFiles)
	}
}

func TestNewJob(t *testing.T) {
	files := []File{{Name: "a.txt", Data: []byte("alpha")}, {Name: "b.txt", Data: []byte("beta")}}
	job := NewJob("Case 12", files)

	if job.ID == "" {
		t.Fatal("expected a job id")
	}
	if other := NewJob("Case 12", nil); other.ID == job.ID {
		t.Error("expected unique job ids")
	}
	snap := job.Snapshot()
	if snap.Status != StatusQueued {
		t.Errorf("expected status %q, got %q", StatusQueued, snap.Status)
	}
	if snap.Progress.TotalFiles != 2 {
		t.Errorf("expected 2 total files, got %d", snap.Progress.TotalFiles)
	}
	if len(job.Files()) != 2 {
		t.Errorf("expected 2 files, got %d", len(job.Files()))
	}
}

func TestJob_CompleteReleasesFiles(t *testing.T) {
	job := NewJob("nb", []File{{Name: "a.txt", Data: []byte("file content here")}})
	root := &mindmap.RenderNode{ID: "root", Label: "nb", Type: mindmap.TypeRoot, Children: []*mindmap.RenderNode{}}
	job.Complete(root)

	if job.Files() != nil {
		t.Error("expected files to be released after completion")
	}
	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Errorf("expected status %q, got %q", StatusCompleted, snap.Status)
	}
	if snap.Root != root {
		t.Error("expected snapshot to carry the result")
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Progress.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Root != nil {
		t.Error("expected no result before completion")
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", UpdatedAt: time.Now()}
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	// Add a fresh job.
	fresh := &Job{ID: "new", UpdatedAt: time.Now()}
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	// Should not panic on empty store.
	store.Cleanup()
}

func TestJobStore_Len(t *testing.T) {
	store := NewJobStore(time.Hour)
	store.Put(&Job{ID: "a", UpdatedAt: time.Now()})
	store.Put(&Job{ID: "b", UpdatedAt: time.Now()})
	store.Put(&Job{ID: "a", UpdatedAt: time.Now()})
	if store.Len() != 2 {
		t.Errorf("expected 2 jobs, got %d", store.Len())
	}
}
