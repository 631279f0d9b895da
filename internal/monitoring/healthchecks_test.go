package monitoring

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunChecks(t *testing.T) {
	statuses := RunChecks(context.Background(),
		Check{Name: "scorer", Probe: func(context.Context) error { return nil }},
		Check{Name: "cache", Probe: func(context.Context) error { return errors.New("connection refused") }},
	)

	require.Len(t, statuses, 2)
	assert.Equal(t, "scorer", statuses[0].Name)
	assert.True(t, statuses[0].Healthy)
	assert.False(t, statuses[1].Healthy)
	assert.Equal(t, "connection refused", statuses[1].Error)
	assert.False(t, AllHealthy(statuses))
}

func TestRunChecks_ProbeGetsDeadline(t *testing.T) {
	statuses := RunChecks(context.Background(), Check{Name: "x", Probe: func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		return nil
	}})

	assert.True(t, AllHealthy(statuses))
}

func TestRunChecks_Concurrent(t *testing.T) {
	// Each probe waits for the other, so a sequential run would time out.
	var wg sync.WaitGroup
	wg.Add(2)
	probe := func(ctx context.Context) error {
		wg.Done()
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			return nil
		case <-time.After(2 * time.Second):
			return errors.New("probes ran one after another")
		}
	}

	statuses := RunChecks(context.Background(), Check{Name: "a", Probe: probe}, Check{Name: "b", Probe: probe})

	require.Len(t, statuses, 2)
	assert.Equal(t, "a", statuses[0].Name)
	assert.Equal(t, "b", statuses[1].Name)
	assert.True(t, AllHealthy(statuses))
}
