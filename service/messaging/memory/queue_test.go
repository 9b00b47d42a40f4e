package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type outputLine struct {
	Terminal string
	Text     string
	Ordinal  int
}

func TestQueue(t *testing.T) {
	config := DefaultConfig()
	config.RetryDelay = 10 * time.Millisecond
	queue := NewQueue[outputLine](config)

	ctx := context.Background()
	payload := outputLine{
		Terminal: "build",
		Text:     "hello",
		Ordinal:  1,
	}

	err := queue.Publish(ctx, &payload)
	assert.NoError(t, err)
	assert.Equal(t, 1, queue.Size())

	message, err := queue.Consume(ctx)
	assert.NoError(t, err)
	assert.NotNil(t, message)
	assert.Equal(t, 0, queue.Size())

	msgData := message.T()
	assert.Equal(t, payload.Terminal, msgData.Terminal)
	assert.Equal(t, payload.Text, msgData.Text)
	assert.Equal(t, payload.Ordinal, msgData.Ordinal)

	err = message.Ack()
	assert.NoError(t, err)

	// double ack should error
	err = message.Ack()
	assert.Error(t, err)
}

func TestQueueRetries(t *testing.T) {
	config := DefaultConfig()
	config.MaxRetries = 1
	config.RetryDelay = 10 * time.Millisecond
	queue := NewQueue[outputLine](config)

	ctx := context.Background()
	payload := outputLine{Terminal: "main", Text: "retry me"}

	err := queue.Publish(ctx, &payload)
	assert.NoError(t, err)

	message, err := queue.Consume(ctx)
	assert.NoError(t, err)
	assert.NotNil(t, message)

	err = message.Nack(nil)
	assert.NoError(t, err)

	// the nacked message comes back after the retry delay
	retryCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	message, err = queue.Consume(retryCtx)
	assert.NoError(t, err)
	assert.NotNil(t, message)

	// exceeding the retry limit parks it in the dead letter buffer
	err = message.Nack(fmt.Errorf("still broken"))
	assert.NoError(t, err)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 0, queue.Size())
	assert.Equal(t, 1, queue.DLQSize())
}

func TestQueueConcurrency(t *testing.T) {
	config := DefaultConfig()
	config.RetryDelay = 10 * time.Millisecond
	queue := NewQueue[outputLine](config)

	ctx := context.Background()
	concurrency := 8
	messagesPerProducer := 10

	var wg sync.WaitGroup
	wg.Add(concurrency * 2)

	var consumedCount int
	var consumedMu sync.Mutex

	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < messagesPerProducer; j++ {
				message, err := queue.Consume(ctx)
				if err != nil {
					t.Errorf("Error consuming: %v", err)
					continue
				}
				assert.NoError(t, message.Ack())
				consumedMu.Lock()
				consumedCount++
				consumedMu.Unlock()
			}
		}()
	}

	for i := 0; i < concurrency; i++ {
		go func(producerID int) {
			defer wg.Done()
			for j := 0; j < messagesPerProducer; j++ {
				payload := outputLine{
					Terminal: fmt.Sprintf("terminal-%d", producerID),
					Text:     fmt.Sprintf("line %d", j),
					Ordinal:  j,
				}
				if err := queue.Publish(ctx, &payload); err != nil {
					t.Errorf("Error publishing: %v", err)
				}
			}
		}(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Test timed out")
	}

	assert.Equal(t, concurrency*messagesPerProducer, consumedCount)
	assert.Equal(t, 0, queue.Size())
}

func TestQueueContextCancellation(t *testing.T) {
	queue := NewQueue[outputLine](DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	payload := outputLine{Terminal: "t"}
	err := queue.Publish(ctx, &payload)
	assert.Error(t, err)

	ctxWithTimeout, cancelTimeout := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancelTimeout()

	_, err = queue.Consume(ctxWithTimeout)
	assert.Error(t, err)

	// queue remains usable afterwards
	emptyCtx := context.Background()
	err = queue.Publish(emptyCtx, &payload)
	assert.NoError(t, err)

	message, err := queue.Consume(emptyCtx)
	assert.NoError(t, err)
	assert.NotNil(t, message)
}

func TestQueueDropOldest(t *testing.T) {
	queue := NewQueue[int](Config{QueueBuffer: 2, DropOldest: true})
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		value := i
		assert.NoError(t, queue.Publish(ctx, &value))
	}
	assert.Equal(t, 2, queue.Size())

	message, err := queue.Consume(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 4, *message.T(), "oldest entries are discarded first")
}

func TestQueueDrain(t *testing.T) {
	queue := NewQueue[outputLine](Config{QueueBuffer: 8})
	ctx := context.Background()
	for _, text := range []string{"stale", "lines"} {
		payload := outputLine{Text: text}
		assert.NoError(t, queue.Publish(ctx, &payload))
	}

	assert.Equal(t, 2, queue.Drain())
	assert.Equal(t, 0, queue.Size())

	_, ok := queue.TryConsume()
	assert.False(t, ok)
}
