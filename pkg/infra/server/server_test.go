package server

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRunnable implements Runnable for testing.
type mockRunnable struct {
	name     string
	startErr error
	stopErr  error
	events   *[]string
	mu       sync.Mutex
}

func (r *mockRunnable) Name() string { return r.name }

func (r *mockRunnable) Start(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.events = append(*r.events, "start:"+r.name)
	return r.startErr
}

func (r *mockRunnable) Stop(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.events = append(*r.events, "stop:"+r.name)
	return r.stopErr
}

func TestManagerStartStopOrder(t *testing.T) {
	var events []string
	m := NewManager(time.Second)
	m.AddServer(&mockRunnable{name: "a", events: &events})
	m.AddServer(&mockRunnable{name: "b", events: &events})

	ctx := context.Background()
	require.NoError(t, m.Start(ctx))
	assert.Error(t, m.Start(ctx))
	require.NoError(t, m.Stop(ctx))

	assert.Equal(t, []string{"start:a", "start:b", "stop:b", "stop:a"}, events)
}

func TestManagerStartFailureStopsStarted(t *testing.T) {
	var events []string
	m := NewManager(0)
	m.AddServer(&mockRunnable{name: "a", events: &events})
	m.AddServer(&mockRunnable{name: "b", events: &events, startErr: errors.New("bind failed")})

	err := m.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bind failed")
	assert.Equal(t, []string{"start:a", "start:b", "stop:a"}, events)
}

func TestManagerStopAggregatesErrors(t *testing.T) {
	var events []string
	m := NewManager(time.Second)
	m.AddServer(&mockRunnable{name: "a", events: &events, stopErr: errors.New("a")})
	m.AddServer(&mockRunnable{name: "b", events: &events, stopErr: errors.New("b")})

	require.NoError(t, m.Start(context.Background()))
	err := m.Stop(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stop server a")
	assert.Contains(t, err.Error(), "stop server b")
}

func TestManagerRunStopsOnContextDone(t *testing.T) {
	var events []string
	m := NewManager(time.Second)
	m.AddServer(&mockRunnable{name: "a", events: &events})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	assert.Equal(t, []string{"start:a", "stop:a"}, events)
}
