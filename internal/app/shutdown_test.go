package app

import (
	"os"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownTriggerSetsFlagOnce(t *testing.T) {
	sd := NewShutdown()
	assert.False(t, sd.Requested())

	assert.True(t, sd.Trigger())
	assert.True(t, sd.Requested())

	// The transition happens exactly once; later triggers are absorbed.
	assert.False(t, sd.Trigger())
	assert.True(t, sd.Requested())
}

func TestShutdownOnSignal(t *testing.T) {
	sd := NewShutdown()
	sd.Watch(syscall.SIGUSR1)
	t.Cleanup(sd.Stop)
	require.False(t, sd.Requested())

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGUSR1))

	require.Eventually(t, func() bool {
		return sd.Requested()
	}, 2*time.Second, 5*time.Millisecond)
}

func TestShutdownCoalescesRepeatedSignals(t *testing.T) {
	sd := NewShutdown()
	sd.Watch(syscall.SIGUSR2)
	t.Cleanup(sd.Stop)

	for i := 0; i < 5; i++ {
		require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGUSR2))
	}

	require.Eventually(t, func() bool {
		return sd.Requested()
	}, 2*time.Second, 5*time.Millisecond)
}

func TestShutdownFlagSurvivesStop(t *testing.T) {
	sd := NewShutdown()
	sd.Watch(syscall.SIGUSR1)

	require.True(t, sd.Trigger())
	sd.Stop()
	assert.True(t, sd.Requested())
}

func TestShutdownWatchIsIdempotent(t *testing.T) {
	sd := NewShutdown()
	sd.Watch(syscall.SIGUSR1)
	sd.Watch(syscall.SIGUSR1)
	t.Cleanup(sd.Stop)

	assert.False(t, sd.Requested())
}

func TestShutdownStopWithoutWatch(t *testing.T) {
	sd := NewShutdown()
	sd.Stop()
	assert.False(t, sd.Requested())
}

func TestShutdownConcurrentReaders(t *testing.T) {
	sd := NewShutdown()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				_ = sd.Requested()
			}
		}()
	}

	sd.Trigger()
	wg.Wait()
	assert.True(t, sd.Requested())
}
