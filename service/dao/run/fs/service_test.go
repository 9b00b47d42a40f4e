package fs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/plexor/runtime/execution"
	"github.com/viant/plexor/service/dao"
)

func TestService_roundTrip(t *testing.T) {
	service, err := New("mem://localhost/plexor/runs")
	assert.NoError(t, err)
	ctx := context.Background()

	run := execution.NewRun("create a project scaffold")
	run.PlanText = `create_directory(path="src")`
	step := run.AddStep(`create_directory(path="src")`)
	step.Start()
	step.Complete("Directory created", map[string]interface{}{"path": "src"})
	run.Start()
	run.Complete()

	assert.NoError(t, service.Save(ctx, run))

	loaded, err := service.Load(ctx, run.ID)
	assert.NoError(t, err)
	assert.Equal(t, run.Goal, loaded.Goal)
	assert.Equal(t, execution.RunStateCompleted, loaded.State)
	if assert.Equal(t, 1, len(loaded.Steps)) {
		assert.Equal(t, execution.StepStateCompleted, loaded.Steps[0].State)
		assert.Equal(t, "Directory created", loaded.Steps[0].Output)
	}

	runs, err := service.List(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(runs))

	assert.NoError(t, service.Delete(ctx, run.ID))
	_, err = service.Load(ctx, run.ID)
	assert.True(t, errors.Is(err, dao.ErrNotFound))
}
