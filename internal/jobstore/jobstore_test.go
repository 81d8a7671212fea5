package jobstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonathan/profile-extractor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func TestMemoryKV_SetGet(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	kv := NewMemoryKV(clock.Now)

	require.NoError(t, kv.Set(ctx, "a", []byte("1"), time.Minute))
	got, err := kv.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)

	_, err = kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryKV_Expiry(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	kv := NewMemoryKV(clock.Now)

	require.NoError(t, kv.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, kv.Set(ctx, "forever", []byte("2"), 0))

	clock.Advance(59 * time.Second)
	_, err := kv.Get(ctx, "a")
	require.NoError(t, err)

	clock.Advance(time.Second)
	_, err = kv.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	removed, err := kv.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, kv.Len())

	_, err = kv.Get(ctx, "forever")
	assert.NoError(t, err)
}

func TestMemoryKV_CopiesValues(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV(nil)
	buf := []byte("abc")
	require.NoError(t, kv.Set(ctx, "k", buf, time.Minute))
	buf[0] = 'x'

	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestTracker_Lifecycle(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	tr := NewTracker(NewMemoryKV(clock.Now), 0, clock.Now)
	assert.Equal(t, DefaultTTL, tr.TTL())

	require.NoError(t, tr.Create(ctx, "job1"))
	job, err := tr.Get(ctx, "job1")
	require.NoError(t, err)
	assert.Equal(t, types.StatusPending, job.Status)
	assert.Equal(t, clock.t, job.CreatedAt)
	assert.Nil(t, job.Profile)

	require.NoError(t, tr.SetStatus(ctx, "job1", types.StatusProcessing))

	profile := &types.NormalizedProfile{
		Domain: types.DomainResume,
		Resume: &types.ResumeProfile{PersonalInfo: types.PersonalInfo{FullName: "John Doe"}},
	}
	require.NoError(t, tr.SetResult(ctx, "job1", profile))

	job, err = tr.Get(ctx, "job1")
	require.NoError(t, err)
	assert.Equal(t, types.StatusCompleted, job.Status)
	require.NotNil(t, job.Profile)
	assert.Equal(t, "John Doe", job.Profile.Resume.PersonalInfo.FullName)
	assert.Empty(t, job.Error)
}

func TestTracker_Failure(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(NewMemoryKV(nil), time.Hour, nil)

	require.NoError(t, tr.Create(ctx, "job1"))
	require.NoError(t, tr.SetStatus(ctx, "job1", types.StatusProcessing))
	require.NoError(t, tr.SetError(ctx, "job1", "document is corrupt"))

	job, err := tr.Get(ctx, "job1")
	require.NoError(t, err)
	assert.Equal(t, types.StatusFailed, job.Status)
	assert.Equal(t, "document is corrupt", job.Error)
	assert.Nil(t, job.Profile)
}

func TestTracker_RejectsNonMonotonicTransitions(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(NewMemoryKV(nil), time.Hour, nil)
	require.NoError(t, tr.Create(ctx, "job1"))

	err := tr.SetResult(ctx, "job1", &types.NormalizedProfile{Domain: types.DomainCompany})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, tr.SetError(ctx, "job1", "skipped processing"), ErrInvalidTransition)

	require.NoError(t, tr.SetStatus(ctx, "job1", types.StatusProcessing))
	assert.ErrorIs(t, tr.SetStatus(ctx, "job1", types.StatusPending), ErrInvalidTransition)

	require.NoError(t, tr.SetError(ctx, "job1", "boom"))
	assert.ErrorIs(t, tr.SetStatus(ctx, "job1", types.StatusProcessing), ErrInvalidTransition)
	assert.ErrorIs(t, tr.SetError(ctx, "job1", "again"), ErrInvalidTransition)
}

func TestTracker_UnknownAndExpired(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	tr := NewTracker(NewMemoryKV(clock.Now), time.Hour, clock.Now)

	job, err := tr.Get(ctx, "never")
	require.NoError(t, err)
	assert.Equal(t, types.StatusUnknown, job.Status)

	require.NoError(t, tr.Create(ctx, "job1"))
	clock.Advance(time.Hour)

	job, err = tr.Get(ctx, "job1")
	require.NoError(t, err)
	assert.Equal(t, types.StatusUnknown, job.Status)

	err = tr.SetStatus(ctx, "job1", types.StatusProcessing)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTracker_SetResultRequiresProfile(t *testing.T) {
	tr := NewTracker(NewMemoryKV(nil), time.Hour, nil)
	assert.Error(t, tr.SetResult(context.Background(), "job1", nil))
}

type countingPurger struct {
	calls int
	err   error
}

func (p *countingPurger) Purge(context.Context) (int, error) {
	p.calls++
	return 3, p.err
}

func TestJanitor(t *testing.T) {
	p := &countingPurger{}
	j, err := NewJanitor(p, "", nil)
	require.NoError(t, err)

	j.RunOnce()
	assert.Equal(t, 1, p.calls)

	p.err = errors.New("db down")
	j.RunOnce()
	assert.Equal(t, 2, p.calls)

	j.Start()
	j.Stop()
}

func TestJanitor_InvalidSchedule(t *testing.T) {
	_, err := NewJanitor(&countingPurger{}, "not a schedule", nil)
	assert.Error(t, err)
}
