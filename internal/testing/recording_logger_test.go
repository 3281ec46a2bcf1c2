package testing

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordingLogger(t *testing.T) {
	l := NewRecordingLogger()
	l.Verbose("NOTICE: relation %q already exists, skipping", "books")
	l.Info("✓ %s: %d inserted", "publishers", 7)
	l.Error("boom")

	assert.Equal(t, []string{
		`verbose: NOTICE: relation "books" already exists, skipping`,
		"info: ✓ publishers: 7 inserted",
		"error: boom",
	}, l.Messages())
	assert.True(t, l.Contains("already exists"))
	assert.False(t, l.Contains("authors"))
}

func TestRecordingLogger_ConcurrentSafety(t *testing.T) {
	l := NewRecordingLogger()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Info("message")
		}()
	}
	wg.Wait()

	assert.Len(t, l.Messages(), 20)
}
