package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobase/webfront/internal/config"
	"github.com/autobase/webfront/internal/domain/models"
)

type countingTaker struct {
	calls    atomic.Int32
	deadline atomic.Bool
	err      error
}

func (c *countingTaker) TakeSnapshot(ctx context.Context) (*models.ReportSnapshot, error) {
	c.calls.Add(1)
	_, ok := ctx.Deadline()
	c.deadline.Store(ok)
	if c.err != nil {
		return nil, c.err
	}
	return &models.ReportSnapshot{TakenAt: time.Now()}, nil
}

func TestStart_RejectsInvalidSchedule(t *testing.T) {
	s := NewScheduler(config.ReportingConfig{CronSchedule: "every friday"}, &countingTaker{}, nil)

	err := s.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "every friday")
}

func TestStart_RegistersJob(t *testing.T) {
	s := NewScheduler(config.ReportingConfig{CronSchedule: "0 20 * * *"}, &countingTaker{}, nil)

	require.NoError(t, s.Start())
	defer s.Stop()

	entries := s.cron.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 20, entries[0].Next.Hour())
}

func TestTakeSnapshot_RunsWithDeadline(t *testing.T) {
	taker := &countingTaker{}
	s := NewScheduler(config.ReportingConfig{CronSchedule: "@every 1h"}, taker, nil)

	s.takeSnapshot()
	assert.Equal(t, int32(1), taker.calls.Load())
	assert.True(t, taker.deadline.Load())

	taker.err = errors.New("backend down")
	s.takeSnapshot()
	assert.Equal(t, int32(2), taker.calls.Load())
}
