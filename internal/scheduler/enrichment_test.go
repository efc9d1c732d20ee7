package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSchedule(t *testing.T) {
	tests := []struct {
		schedule  string
		expectErr bool
	}{
		{"*/30 * * * *", false},
		{"0 0 * * 0", false},
		{"@hourly", true},
		{"* * * *", true},
		{"0 0 0 * * *", true},
		{"not a schedule", true},
	}

	for _, tt := range tests {
		t.Run(tt.schedule, func(t *testing.T) {
			err := ValidateSchedule(tt.schedule)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func noop() error { return nil }

func TestEnrichmentScheduler_EmptyScheduleDisabled(t *testing.T) {
	s := NewEnrichmentScheduler("", noop)

	require.NoError(t, s.Start(context.Background()))

	assert.False(t, s.IsRunning())
	assert.Nil(t, s.NextRunTime())
}

func TestEnrichmentScheduler_InvalidSchedule(t *testing.T) {
	s := NewEnrichmentScheduler("every now and then", noop)

	err := s.Start(context.Background())

	assert.ErrorContains(t, err, "invalid cron schedule")
	assert.False(t, s.IsRunning())
}

func TestEnrichmentScheduler_StartStop(t *testing.T) {
	s := NewEnrichmentScheduler("*/30 * * * *", noop)

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())

	next := s.NextRunTime()
	require.NotNil(t, next)
	assert.True(t, next.After(time.Now()))
	assert.Zero(t, next.Minute()%30)

	s.Stop()
	s.Stop()
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.NextRunTime())
}

func TestEnrichmentScheduler_StopsOnContextCancel(t *testing.T) {
	s := NewEnrichmentScheduler("0 * * * *", noop)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, s.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool { return !s.IsRunning() }, 2*time.Second, 10*time.Millisecond)
}

func TestEnrichmentScheduler_RunNow(t *testing.T) {
	calls := 0
	s := NewEnrichmentScheduler("", func() error {
		calls++
		return nil
	})

	require.NoError(t, s.RunNow())
	assert.Equal(t, 1, calls)

	failing := NewEnrichmentScheduler("", func() error { return errors.New("queue closed") })
	assert.Error(t, failing.RunNow())
}
