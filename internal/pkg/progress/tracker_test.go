package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackerLifecycle(t *testing.T) {
	tr := NewTracker()

	_, ok := tr.Get("missing")
	assert.False(t, ok)

	tr.Start("job-1", "starting")
	s, ok := tr.Get("job-1")
	assert.True(t, ok)
	assert.Equal(t, 0, s.Percent)
	assert.False(t, s.Done)

	tr.Update("job-1", 150, "halfway")
	s, _ = tr.Get("job-1")
	assert.Equal(t, 100, s.Percent) // clamped

	tr.Complete("job-1", "finished", "/files/out.xlsx")
	s, _ = tr.Get("job-1")
	assert.True(t, s.Done)
	assert.False(t, s.Failed)
	assert.Equal(t, "/files/out.xlsx", s.DownloadURL)
}

func TestTrackerFail(t *testing.T) {
	tr := NewTracker()
	tr.Start("job-2", "starting")
	tr.Update("job-2", 40, "working")
	tr.Fail("job-2", "something broke")

	s, ok := tr.Get("job-2")
	assert.True(t, ok)
	assert.True(t, s.Done)
	assert.True(t, s.Failed)
	assert.Equal(t, 40, s.Percent) // last reported progress is kept
}
