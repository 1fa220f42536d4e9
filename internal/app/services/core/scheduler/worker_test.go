package scheduler

import (
	"context"
	"errors"
	"mentorship-service/internal/app/config"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/exceptions"
	"mentorship-service/internal/pkg/testutil"
	"mentorship-service/internal/pkg/utils"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var start = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

type workerFixture struct {
	store      *testutil.MemStore
	clock      *testutil.FakeClock
	locker     *testutil.FakeLocker
	dispatcher contracts.JobDispatcher
	scheduler  contracts.Scheduler
	worker     *Worker
}

func newWorkerFixture() *workerFixture {
	cfg := &config.InternalConfig{Scheduler: config.AppScheduler{
		CronSpec:              "@every 30s",
		BatchSize:             10,
		MaxAttempts:           3,
		RetryBackoffInSeconds: 60,
		StaleAfterInMinutes:   10,
	}}
	f := &workerFixture{
		store:      testutil.NewMemStore(),
		clock:      testutil.NewFakeClock(start),
		locker:     &testutil.FakeLocker{},
		dispatcher: NewDispatcher(),
	}
	f.scheduler = NewSchedulerService(f.clock, zap.NewNop())
	f.worker = NewWorker(zap.NewNop(), cfg, f.locker, f.store, f.dispatcher, f.clock)
	return f
}

func (f *workerFixture) schedule(t *testing.T, operation models.JobOperation, entityID string, delay time.Duration) {
	t.Helper()
	err := f.store.WithinTransaction(context.Background(), func(ctx context.Context, tx contracts.Store) error {
		return f.scheduler.ScheduleOnce(ctx, tx, operation, entityID, delay)
	})
	require.NoError(t, err)
}

func TestDispatcher(t *testing.T) {
	d := NewDispatcher()
	var got string
	d.Register(models.JobBalanceRelease, func(ctx context.Context, entityID string) error {
		got = entityID
		return nil
	})
	d.Register(models.JobSessionAutoComplete, func(ctx context.Context, entityID string) error {
		panic("boom")
	})

	require.NoError(t, d.Dispatch(context.Background(), models.ScheduledJob{Operation: models.JobBalanceRelease, EntityID: "payment-1"}))
	assert.Equal(t, "payment-1", got)

	err := d.Dispatch(context.Background(), models.ScheduledJob{Operation: models.JobRescheduleAutoResolve})
	assert.True(t, exceptions.IsKind(err, exceptions.KindInternal))

	err = d.Dispatch(context.Background(), models.ScheduledJob{ID: "job-1", Operation: models.JobSessionAutoComplete})
	require.Error(t, err)
	assert.True(t, exceptions.IsKind(err, exceptions.KindInternal))
}

func TestScheduleOnceClampsNegativeDelay(t *testing.T) {
	f := newWorkerFixture()
	f.schedule(t, models.JobBalanceRelease, "payment-1", -time.Hour)

	job, ok := f.store.PendingJob(models.JobBalanceRelease, "payment-1")
	require.True(t, ok)
	assert.Equal(t, start, job.RunAt)
}

func TestWorkerRunDue(t *testing.T) {
	t.Run("runs only due jobs", func(t *testing.T) {
		f := newWorkerFixture()
		var ran []string
		f.dispatcher.Register(models.JobBalanceRelease, func(ctx context.Context, entityID string) error {
			ran = append(ran, entityID)
			return nil
		})
		f.schedule(t, models.JobBalanceRelease, "due", 0)
		f.schedule(t, models.JobBalanceRelease, "later", time.Hour)

		assert.Equal(t, 1, f.worker.RunDue(context.Background()))
		assert.Equal(t, []string{"due"}, ran)
		assert.Equal(t, 0, f.worker.RunDue(context.Background()))

		f.clock.Advance(time.Hour)
		assert.Equal(t, 1, f.worker.RunDue(context.Background()))
		assert.Equal(t, []string{"due", "later"}, ran)
	})

	t.Run("retries with linear backoff until it succeeds", func(t *testing.T) {
		f := newWorkerFixture()
		calls := 0
		f.dispatcher.Register(models.JobSessionAutoComplete, func(ctx context.Context, entityID string) error {
			calls++
			if calls < 3 {
				return errors.New("database busy")
			}
			return nil
		})
		f.schedule(t, models.JobSessionAutoComplete, "session-1", 0)

		f.worker.RunDue(context.Background())
		job, ok := f.store.PendingJob(models.JobSessionAutoComplete, "session-1")
		require.True(t, ok)
		assert.Equal(t, 1, job.Attempts)
		assert.Equal(t, start.Add(60*time.Second), job.RunAt)
		assert.Equal(t, "database busy", job.LastError)

		f.clock.Set(job.RunAt)
		f.worker.RunDue(context.Background())
		job, ok = f.store.PendingJob(models.JobSessionAutoComplete, "session-1")
		require.True(t, ok)
		assert.Equal(t, 2, job.Attempts)
		assert.Equal(t, start.Add(180*time.Second), job.RunAt)

		f.clock.Set(job.RunAt)
		f.worker.RunDue(context.Background())
		jobs := f.store.Jobs(models.JobSessionAutoComplete)
		require.Len(t, jobs, 1)
		assert.Equal(t, models.JobStatusDone, jobs[0].Status)
		assert.Empty(t, jobs[0].LastError)
	})

	t.Run("gives up after the maximum attempts", func(t *testing.T) {
		f := newWorkerFixture()
		f.dispatcher.Register(models.JobPaymentCaptureTimeout, func(ctx context.Context, entityID string) error {
			return errors.New("provider down")
		})
		f.schedule(t, models.JobPaymentCaptureTimeout, "payment-1", 0)

		for i := 0; i < 3; i++ {
			f.clock.Advance(10 * time.Minute)
			f.worker.RunDue(context.Background())
		}
		jobs := f.store.Jobs(models.JobPaymentCaptureTimeout)
		require.Len(t, jobs, 1)
		assert.Equal(t, models.JobStatusDead, jobs[0].Status)
		assert.Equal(t, 3, jobs[0].Attempts)

		f.clock.Advance(time.Hour)
		assert.Equal(t, 0, f.worker.RunDue(context.Background()))
	})

	t.Run("passes a job request id to the handler", func(t *testing.T) {
		f := newWorkerFixture()
		var requestID string
		f.dispatcher.Register(models.JobBalanceRelease, func(ctx context.Context, entityID string) error {
			requestID = utils.RequestIDFromContext(ctx)
			return nil
		})
		f.schedule(t, models.JobBalanceRelease, "payment-1", 0)

		f.worker.RunDue(context.Background())
		assert.Regexp(t, "^job-", requestID)
	})
}

func TestWorkerRunOnceHonoursLeaderLock(t *testing.T) {
	f := newWorkerFixture()
	ran := 0
	f.dispatcher.Register(models.JobBalanceRelease, func(ctx context.Context, entityID string) error {
		ran++
		return nil
	})
	f.schedule(t, models.JobBalanceRelease, "payment-1", 0)

	f.locker.Busy = true
	f.worker.runOnce(context.Background())
	assert.Zero(t, ran)

	f.locker.Busy = false
	f.worker.runOnce(context.Background())
	assert.Equal(t, 1, ran)
	assert.Equal(t, 1, f.locker.Locks)

	ok, _, err := f.locker.TryLock(context.Background(), leaderLockKey, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "leader lock is released after a poll")
}

func TestWorkerStartStop(t *testing.T) {
	t.Run("stop cancels the run context and can be repeated", func(t *testing.T) {
		f := newWorkerFixture()
		f.worker.Start(context.Background())
		f.worker.Stop()
		f.worker.Stop()
		assert.ErrorIs(t, f.worker.runCtx.Err(), context.Canceled)
	})

	t.Run("stop before start is a no-op", func(t *testing.T) {
		f := newWorkerFixture()
		assert.NotPanics(t, f.worker.Stop)
	})
}
