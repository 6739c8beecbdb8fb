package workforce_test

import (
	"errors"
	"testing"

	"github.com/BaSui01/workforce/events"
	"github.com/BaSui01/workforce/memory"
	"github.com/BaSui01/workforce/testutil"
	"github.com/BaSui01/workforce/testutil/fixtures"
	"github.com/BaSui01/workforce/testutil/mocks"
	"github.com/BaSui01/workforce/workforce"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

func TestMiningFlow(t *testing.T) {
	ctx := testutil.TestContext(t)
	store := memory.NewMemoryStore()
	rec := events.NewRecorder()
	reg := workforce.NewRegistry(workforce.Env{
		Clock:     workforce.NewManualClock(1),
		Memory:    store,
		Publisher: rec,
		Logger:    zaptest.NewLogger(t),
	})
	task, err := reg.NewTask(workforce.TaskSpec{Key: "mining", Room: fixtures.DefaultRoom}, fixtures.MiningDescriptor())
	require.NoError(t, err)

	require.True(t, reg.Assign(ctx, fixtures.Miner("m1"), task))
	assert.Equal(t, workforce.StateWaiting, task.State(), "hauler minimum not met")

	require.True(t, reg.Assign(ctx, fixtures.Hauler("h1"), task))
	assert.Equal(t, workforce.StateWorking, task.State())
	assert.Equal(t, "miner", task.RoleOf("m1"))
	assert.Equal(t, "hauler", task.RoleOf("h1"))

	testutil.AssertEventCount(t, rec, events.EventEmploy, 2)
	testutil.AssertEventCount(t, rec, events.EventTake, 2)
	testutil.AssertStoreField(t, store, "m1", memory.FieldTask, "mining")
	testutil.AssertStoreField(t, store, "m1", memory.FieldRole, "miner")

	assert.False(t, reg.Assign(ctx, fixtures.Untagged("u1"), task))
	assert.False(t, reg.Assign(ctx, fixtures.Structure("s1", "container"), task))
	testutil.AssertStoreField(t, store, "u1", memory.FieldTask, "")

	reg.Teardown(ctx, "h1")
	testutil.AssertStoreField(t, store, "h1", memory.FieldTask, "")
	testutil.AssertEventCount(t, rec, events.EventRelease, 1)
	assert.Equal(t, workforce.StateWaiting, task.State())
}

func TestGuardFlow_NeedsTwo(t *testing.T) {
	ctx := testutil.TestContext(t)
	reg := workforce.NewRegistry(workforce.Env{Logger: zaptest.NewLogger(t)})
	task, err := reg.NewTask(workforce.TaskSpec{Key: "guard"}, fixtures.GuardDescriptor())
	require.NoError(t, err)

	require.True(t, reg.Assign(ctx, fixtures.Guard("g1"), task))
	assert.Equal(t, workforce.StateWaiting, task.State())
	require.True(t, reg.Assign(ctx, fixtures.Guard("g2"), task))
	assert.Equal(t, workforce.StateWorking, task.State())
	assert.True(t, task.Sufficient("guard"))

	assert.False(t, reg.Assign(ctx, fixtures.Miner("m1"), task), "tag mismatch")
}

func TestRegistry_StoreFailuresAreLogged(t *testing.T) {
	ctx := testutil.TestContext(t)
	down := errors.New("store down")
	store := mocks.NewMockStore().WithDeleteError(down).WithDropError(down)
	logger, logs := testutil.ObservedLogger(zapcore.WarnLevel)
	reg := workforce.NewRegistry(workforce.Env{Memory: store, Logger: logger})
	task, err := reg.NewTask(workforce.TaskSpec{Key: "guard"}, fixtures.GuardDescriptor())
	require.NoError(t, err)

	require.True(t, reg.Assign(ctx, fixtures.Guard("g1"), task))
	assert.Equal(t, 2, store.SetCalls(), "task and role fields")

	reg.Forget(ctx, "g1")
	testutil.AssertLogged(t, logs, "failed to clear agent task")
	testutil.AssertLogged(t, logs, "failed to drop agent memory")
	assert.Equal(t, 1, store.DropCalls())
	assert.Nil(t, reg.Lookup(ctx, "g1"))
	assert.Equal(t, 0, task.EmployeeCount())
}

func TestTask_SetFailureDoesNotBlockEmployment(t *testing.T) {
	ctx := testutil.TestContext(t)
	store := mocks.NewMockStore().WithSetError(errors.New("store down"))
	logger, logs := testutil.ObservedLogger(zapcore.WarnLevel)
	task, err := workforce.NewTask(workforce.Env{Memory: store, Logger: logger},
		workforce.TaskSpec{Key: "mining"}, fixtures.MiningDescriptor())
	require.NoError(t, err)

	assert.True(t, task.Employ(ctx, fixtures.Miner("m1")))
	assert.Equal(t, 1, task.EmployeeCount())
	testutil.AssertLogged(t, logs, "failed to record task on agent")
}
