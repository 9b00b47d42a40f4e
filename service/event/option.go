package event

import (
	"github.com/viant/plexor/service/messaging/fs"
	"github.com/viant/plexor/service/messaging/memory"
)

// Option customizes the event service.
type Option func(s *Service)

// WithNewFsQueueConfig supplies the per-queue configuration factory the fs
// vendor builds its journaled queues with.
func WithNewFsQueueConfig(newConfig func(name string) fs.Config) Option {
	return func(s *Service) {
		s.fsNewQueueConfig = newConfig
	}
}

// WithNewMemoryQueueConfig supplies the per-queue configuration factory for
// the memory vendor.
func WithNewMemoryQueueConfig(newConfig func(name string) memory.Config) Option {
	return func(s *Service) {
		s.memNewQueueConfig = newConfig
	}
}
