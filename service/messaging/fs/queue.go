package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/plexor/service/messaging"
)

// MessageState represents the lifecycle state of a journaled message
type MessageState string

const (
	MessageStatePending    MessageState = "pending"
	MessageStateProcessing MessageState = "processing"
	MessageStateCompleted  MessageState = "completed"
	MessageStateFailed     MessageState = "failed"
)

// Message implements messaging.Message for the filesystem queue
type Message[T any] struct {
	ID        string       `json:"id"`
	Data      T            `json:"data"`
	State     MessageState `json:"state"`
	Error     string       `json:"error,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Retries   int          `json:"retries"`

	name      string
	queue     *Queue[T]
	processed bool
	mu        sync.Mutex
}

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.Data
}

// Ack moves the message to the completed directory
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	m.State = MessageStateCompleted
	m.UpdatedAt = time.Now()
	return m.queue.settle(context.Background(), m, m.queue.completedURL)
}

// Nack requeues the message while under the retry limit, then parks it in the
// dead letter directory.
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	m.State = MessageStateFailed
	if err != nil {
		m.Error = err.Error()
	}
	m.Retries++
	m.UpdatedAt = time.Now()

	if m.Retries <= m.queue.config.MaxRetries {
		m.State = MessageStatePending
		return m.queue.settle(context.Background(), m, m.queue.pendingURL)
	}
	return m.queue.settle(context.Background(), m, m.queue.dlqURL)
}

// Config holds configuration for the filesystem queue
type Config struct {
	// BaseURL is an afs URL (file://, mem://) rooting the queue directories
	BaseURL    string
	MaxRetries int
}

// DefaultConfig returns a default queue configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:    "file:///tmp/plexor/queue",
		MaxRetries: 3,
	}
}

// Queue implements a filesystem-backed messaging.Queue. Messages are JSON
// documents moved between pending, processing, completed and dlq directories,
// which doubles as a durable journal of everything published.
type Queue[T any] struct {
	fs            afs.Service
	config        Config
	pendingURL    string
	processingURL string
	completedURL  string
	dlqURL        string
	mu            sync.Mutex
}

// NewQueue creates a new filesystem-backed queue rooted at config.BaseURL
func NewQueue[T any](fs afs.Service, config Config) (*Queue[T], error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}

	q := &Queue[T]{
		fs:            fs,
		config:        config,
		pendingURL:    url.Join(config.BaseURL, "pending"),
		processingURL: url.Join(config.BaseURL, "processing"),
		completedURL:  url.Join(config.BaseURL, "completed"),
		dlqURL:        url.Join(config.BaseURL, "dlq"),
	}

	ctx := context.Background()
	for _, dir := range []string{q.pendingURL, q.processingURL, q.completedURL, q.dlqURL} {
		if exists, _ := fs.Exists(ctx, dir); exists {
			continue
		}
		if err := fs.Create(ctx, dir, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return q, nil
}

// Publish journals a new message into the pending directory
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	message := &Message[T]{
		ID:        uuid.New().String(),
		Data:      *t,
		State:     MessageStatePending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	message.name = messageFilename(message.CreatedAt, message.ID)

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	return q.upload(ctx, url.Join(q.pendingURL, message.name), data)
}

// Consume claims the oldest pending message by moving it into the processing
// directory. It returns nil without error when nothing is pending.
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	objects, err := q.fs.List(ctx, q.pendingURL)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending messages: %w", err)
	}

	var names []string
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		names = append(names, object.Name())
	}
	if len(names) == 0 {
		return nil, nil
	}
	// filenames are time-prefixed, so lexical order is publish order
	sort.Strings(names)

	name := names[0]
	message, err := q.read(ctx, url.Join(q.pendingURL, name))
	if err != nil {
		_ = q.fs.Move(ctx, url.Join(q.pendingURL, name), url.Join(q.dlqURL, "invalid-"+name))
		return nil, err
	}
	message.name = name
	message.State = MessageStateProcessing
	message.UpdatedAt = time.Now()
	message.queue = q

	data, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal claimed message: %w", err)
	}
	if err := q.upload(ctx, url.Join(q.processingURL, name), data); err != nil {
		return nil, fmt.Errorf("failed to claim message: %w", err)
	}
	if err := q.fs.Delete(ctx, url.Join(q.pendingURL, name)); err != nil {
		return nil, fmt.Errorf("failed to remove claimed message: %w", err)
	}
	return message, nil
}

// settle finalizes a claimed message under destURL and clears its processing
// entry.
func (q *Queue[T]) settle(ctx context.Context, m *Message[T], destURL string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	if err := q.upload(ctx, url.Join(destURL, m.name), data); err != nil {
		return fmt.Errorf("failed to settle message: %w", err)
	}
	processing := url.Join(q.processingURL, m.name)
	if exists, _ := q.fs.Exists(ctx, processing); exists {
		if err := q.fs.Delete(ctx, processing); err != nil {
			return fmt.Errorf("failed to delete processing entry: %w", err)
		}
	}
	return nil
}

// Size reports how many messages are pending.
func (q *Queue[T]) Size(ctx context.Context) int {
	objects, err := q.fs.List(ctx, q.pendingURL)
	if err != nil {
		return 0
	}
	count := 0
	for _, object := range objects {
		if !object.IsDir() && strings.HasSuffix(object.Name(), ".json") {
			count++
		}
	}
	return count
}

func (q *Queue[T]) upload(ctx context.Context, URL string, data []byte) error {
	return q.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewBuffer(data))
}

func (q *Queue[T]) read(ctx context.Context, URL string) (*Message[T], error) {
	data, err := q.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read message %s: %w", URL, err)
	}
	var message Message[T]
	if err := json.Unmarshal(data, &message); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message %s: %w", URL, err)
	}
	return &message, nil
}

func messageFilename(createdAt time.Time, id string) string {
	return fmt.Sprintf("%s-%s.json", createdAt.UTC().Format("20060102T150405.000000000"), id)
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
