package batch

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_Increment(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 100, 10)

	tracker.Start()
	tracker.Increment(5)
	assert.Empty(t, buf.String(), "below the report interval")

	tracker.Increment(20)
	tracker.Increment(75)

	assert.Equal(t, 100, tracker.Current())
	assert.Greater(t, tracker.Elapsed(), time.Duration(0))
	assert.Contains(t, buf.String(), "\rProgress: 25/100 (25.0%)")
	assert.Contains(t, buf.String(), "100/100 (100.0%)")
	assert.Contains(t, buf.String(), "items/s")
}

func TestProgressTracker_NotStarted(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 1)

	tracker.Increment(5)
	tracker.Finish()

	assert.Empty(t, buf.String())
	assert.Equal(t, time.Duration(0), tracker.Elapsed())
}

func TestProgressTracker_Finish(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 4, 10)

	tracker.Start()
	tracker.Increment(3)
	tracker.Finish()

	assert.Contains(t, buf.String(), "4/4 (100.0%)")
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestProgressTracker_ZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 0, 0)

	tracker.Start()
	tracker.Finish()

	assert.Contains(t, buf.String(), "0/0 (0.0%)")
}

func TestProgressTracker_CapsAtTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 1)

	tracker.Start()
	tracker.Increment(15)

	assert.Equal(t, 10, tracker.Current())
	assert.Contains(t, buf.String(), "10/10")
}

func TestProgressTracker_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 200, 50)
	tracker.Start()

	var wg sync.WaitGroup
	for range 200 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Increment(1)
		}()
	}
	wg.Wait()

	assert.Equal(t, 200, tracker.Current())
}
