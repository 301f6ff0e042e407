package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobTrackerLifecycle(t *testing.T) {
	tracker := NewJobTracker()
	tracker.CreateJob("j1", 2)

	job, ok := tracker.GetJob("j1")
	require.True(t, ok)
	assert.Equal(t, "running", job.Status)
	assert.Equal(t, 2, job.Total)
	assert.False(t, job.StartedAt.IsZero())

	tracker.FileDone("j1", "a.txt", 3)
	tracker.FileFailed("j1", "b.txt", "unsupported format")
	tracker.Complete("j1")

	job, ok = tracker.GetJob("j1")
	require.True(t, ok)
	assert.Equal(t, "complete", job.Status)
	assert.Equal(t, 2, job.Progress)
	assert.Equal(t, 3, job.Chunks)
	assert.Equal(t, []string{"a.txt"}, job.Indexed)
	require.Len(t, job.Errors, 1)
	assert.Contains(t, job.Errors[0], "b.txt")
	assert.False(t, job.CompletedAt.IsZero())
}

func TestJobTrackerErrorWhenNothingIndexed(t *testing.T) {
	tracker := NewJobTracker()
	tracker.CreateJob("j1", 1)
	tracker.FileFailed("j1", "a.txt", "boom")
	tracker.Complete("j1")

	job, ok := tracker.GetJob("j1")
	require.True(t, ok)
	assert.Equal(t, "error", job.Status)
}

func TestJobTrackerSubscribe(t *testing.T) {
	tracker := NewJobTracker()
	tracker.CreateJob("j1", 1)

	ch := tracker.Subscribe("j1")
	tracker.FileDone("j1", "a.txt", 2)
	tracker.Complete("j1")

	first := <-ch
	assert.Equal(t, "running", first.Status)
	assert.Equal(t, 1, first.Progress)

	second := <-ch
	assert.Equal(t, "complete", second.Status)

	tracker.Unsubscribe("j1", ch)
	_, open := <-ch
	assert.False(t, open)
}

func TestJobTrackerUnknownJob(t *testing.T) {
	tracker := NewJobTracker()

	_, ok := tracker.GetJob("missing")
	assert.False(t, ok)

	// Updates for unknown jobs are ignored, not panics.
	tracker.FileDone("missing", "a.txt", 1)
	tracker.Complete("missing")
}
