package saga

import (
	"context"
	"errors"
	"testing"

	"restaurant-discovery-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func step(name string, trace *[]string, actionErr error, compensateErr error) Step {
	return Step{
		Name: name,
		Action: func(ctx context.Context, sc *Context) error {
			*trace = append(*trace, "action:"+name)
			return actionErr
		},
		Compensate: func(ctx context.Context, sc *Context) error {
			*trace = append(*trace, "compensate:"+name)
			return compensateErr
		},
	}
}

func TestExecuteRunsStepsInOrder(t *testing.T) {
	var trace []string
	c := NewCoordinator(logger.NewNopLogger())

	err := c.Execute(context.Background(), NewContext(), []Step{
		step("a", &trace, nil, nil),
		step("b", &trace, nil, nil),
		step("c", &trace, nil, nil),
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"action:a", "action:b", "action:c"}, trace)
}

func TestExecuteCompensatesInReverseOnFailure(t *testing.T) {
	var trace []string
	boom := errors.New("step c failed")
	c := NewCoordinator(logger.NewNopLogger())

	err := c.Execute(context.Background(), NewContext(), []Step{
		step("a", &trace, nil, nil),
		step("b", &trace, nil, nil),
		step("c", &trace, boom, nil),
	})

	require.ErrorIs(t, err, boom)
	// The failed step itself is not compensated; completed ones unwind in
	// reverse order.
	assert.Equal(t, []string{
		"action:a", "action:b", "action:c",
		"compensate:b", "compensate:a",
	}, trace)
}

func TestExecuteCompensationErrorDoesNotMaskStepError(t *testing.T) {
	var trace []string
	boom := errors.New("step b failed")
	c := NewCoordinator(logger.NewNopLogger())

	err := c.Execute(context.Background(), NewContext(), []Step{
		step("a", &trace, nil, errors.New("compensation also failed")),
		step("b", &trace, boom, nil),
	})

	require.ErrorIs(t, err, boom)
	assert.Contains(t, trace, "compensate:a")
}

func TestExecuteSkipsNilCompensation(t *testing.T) {
	var trace []string
	boom := errors.New("step b failed")
	c := NewCoordinator(logger.NewNopLogger())

	err := c.Execute(context.Background(), NewContext(), []Step{
		{
			Name: "a",
			Action: func(ctx context.Context, sc *Context) error {
				trace = append(trace, "action:a")
				return nil
			},
		},
		step("b", &trace, boom, nil),
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"action:a", "action:b"}, trace)
}

func TestContextTypedKeys(t *testing.T) {
	sc := NewContext()
	countKey := NewKey[int]("count")
	nameKey := NewKey[string]("name")

	Put(sc, countKey, 3)
	Put(sc, nameKey, "abc")

	count, ok := Get(sc, countKey)
	require.True(t, ok)
	assert.Equal(t, 3, count)

	name, ok := Get(sc, nameKey)
	require.True(t, ok)
	assert.Equal(t, "abc", name)

	_, ok = Get(sc, NewKey[int]("missing"))
	assert.False(t, ok)
}

func TestContextsAreIndependent(t *testing.T) {
	key := NewKey[string]("value")
	first := NewContext()
	second := NewContext()

	Put(first, key, "one")

	_, ok := Get(second, key)
	assert.False(t, ok)
	assert.NotEqual(t, first.Id(), second.Id())
}
