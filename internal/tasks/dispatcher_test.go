package tasks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bolo-service/internal/gcal"
)

type stubSyncer struct {
	res *gcal.Result
	err error
}

func (s *stubSyncer) Sync(_ context.Context, _ string) (*gcal.Result, error) {
	return s.res, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcherDeliversOutcome(t *testing.T) {
	d := NewDispatcher(&stubSyncer{res: &gcal.Result{EventID: "ev-1", Created: true}}, 4, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	job, err := d.Enqueue("b-1")
	require.NoError(t, err)

	select {
	case out := <-job.Done:
		require.NoError(t, out.Err)
		assert.Equal(t, "ev-1", out.Result.EventID)
		assert.True(t, out.Result.Created)
	case <-time.After(2 * time.Second):
		t.Fatal("no outcome delivered")
	}
}

func TestDispatcherDeliversError(t *testing.T) {
	wantErr := errors.New("sync exploded")
	d := NewDispatcher(&stubSyncer{err: wantErr}, 4, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	job, err := d.Enqueue("b-1")
	require.NoError(t, err)

	select {
	case out := <-job.Done:
		assert.ErrorIs(t, out.Err, wantErr)
	case <-time.After(2 * time.Second):
		t.Fatal("no outcome delivered")
	}
}

func TestDispatcherQueueFull(t *testing.T) {
	// Worker never started, so the buffer fills up.
	d := NewDispatcher(&stubSyncer{}, 1, testLogger())

	_, err := d.Enqueue("b-1")
	require.NoError(t, err)
	_, err = d.Enqueue("b-2")
	assert.ErrorIs(t, err, ErrQueueFull)
}
