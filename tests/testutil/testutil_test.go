package testutil

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewTestUUID(t *testing.T) {
	assert.Equal(t, NewTestUUID("worker"), NewTestUUID("worker"))
	assert.NotEqual(t, NewTestUUID("worker"), NewTestUUID("manager"))
}

func TestContextWithTimeout(t *testing.T) {
	ctx := ContextWithTimeout(t, time.Minute)
	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, time.Second)
}

func TestRunConcurrently(t *testing.T) {
	var calls atomic.Int32
	errBusy := errors.New("busy")

	errs := RunConcurrently(8, func(i int) error {
		calls.Add(1)
		if i%2 == 1 {
			return errBusy
		}
		return nil
	})

	assert.Equal(t, int32(8), calls.Load())
	assert.Len(t, errs, 8)
	assert.Equal(t, 4, CountNil(errs))
	assert.ErrorIs(t, errs[1], errBusy)
	assert.NoError(t, errs[0])
}

func TestRequireEventually(t *testing.T) {
	var n atomic.Int32
	RequireEventually(t, func() bool { return n.Add(1) >= 3 }, time.Second, time.Millisecond)
	assert.GreaterOrEqual(t, n.Load(), int32(3))
}
