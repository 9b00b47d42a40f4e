package memory

import (
	"context"
	"sort"

	"github.com/viant/plexor/runtime/execution"
	"github.com/viant/plexor/service/dao"
	"github.com/viant/plexor/service/dao/criteria"
	"github.com/viant/plexor/service/dao/store"
)

// Service implements an in-memory, thread-safe store for plan runs.
type Service struct {
	runs *store.Memory[string, execution.Run]
}

var _ dao.Service[string, execution.Run] = (*Service)(nil)

func (s *Service) Save(ctx context.Context, run *execution.Run) error {
	if run == nil {
		return dao.ErrNilEntity
	}
	if run.ID == "" {
		return dao.ErrInvalidID
	}
	s.runs.Put(run)
	return nil
}

func (s *Service) Load(ctx context.Context, id string) (*execution.Run, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	run, ok := s.runs.Get(id)
	if !ok {
		return nil, dao.ErrNotFound
	}
	return run, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	if !s.runs.Remove(id) {
		return dao.ErrNotFound
	}
	return nil
}

// List returns runs matching the optional State parameter, oldest first.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*execution.Run, error) {
	matches := criteria.StateFilter(parameters)
	out := s.runs.Snapshot(func(run *execution.Run) bool {
		return matches(string(run.State))
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func New() *Service {
	return &Service{
		runs: store.New[string, execution.Run](func(run *execution.Run) string {
			return run.ID
		}),
	}
}
