package app

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// overlapDetector flags any two writes running at the same time
type overlapDetector struct {
	active  int32
	overlap int32
	writes  int32
}

func (d *overlapDetector) WriteMessage(messageType int, data []byte) error {
	if atomic.AddInt32(&d.active, 1) > 1 {
		atomic.StoreInt32(&d.overlap, 1)
	}
	time.Sleep(time.Millisecond)
	atomic.AddInt32(&d.writes, 1)
	atomic.AddInt32(&d.active, -1)
	return nil
}

func TestSyncWriter_SerializesConcurrentWrites(t *testing.T) {
	detector := &overlapDetector{}
	writer := &syncWriter{conn: detector}

	// relay goroutines, the ping loop and the read loop all write to one
	// connection at once
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 5; i++ {
				assert.NoError(t, writer.WriteMessage(1, []byte("payload")))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(0), atomic.LoadInt32(&detector.overlap))
	assert.Equal(t, int32(40), atomic.LoadInt32(&detector.writes))
}
