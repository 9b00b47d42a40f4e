package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/plexor/runtime/execution"
	"github.com/viant/plexor/service/dao"
)

func TestService_crud(t *testing.T) {
	service := New()
	ctx := context.Background()

	run := execution.NewRun("list files")
	run.PlanText = `list_files()`
	assert.NoError(t, service.Save(ctx, run))

	loaded, err := service.Load(ctx, run.ID)
	assert.NoError(t, err)
	assert.Equal(t, run.Goal, loaded.Goal)

	_, err = service.Load(ctx, "missing")
	assert.True(t, errors.Is(err, dao.ErrNotFound))

	assert.True(t, errors.Is(service.Save(ctx, nil), dao.ErrNilEntity))
	_, err = service.Load(ctx, "")
	assert.True(t, errors.Is(err, dao.ErrInvalidID))

	assert.NoError(t, service.Delete(ctx, run.ID))
	assert.True(t, errors.Is(service.Delete(ctx, run.ID), dao.ErrNotFound))
}

func TestService_listByState(t *testing.T) {
	service := New()
	ctx := context.Background()

	completed := execution.NewRun("first")
	completed.Start()
	completed.Complete()
	assert.NoError(t, service.Save(ctx, completed))

	running := execution.NewRun("second")
	running.Start()
	assert.NoError(t, service.Save(ctx, running))

	all, err := service.List(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(all))

	onlyRunning, err := service.List(ctx, dao.NewParameter("State", string(execution.RunStateRunning)))
	assert.NoError(t, err)
	if assert.Equal(t, 1, len(onlyRunning)) {
		assert.Equal(t, "second", onlyRunning[0].Goal)
	}
}
