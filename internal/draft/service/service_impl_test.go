package service

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/feedbackrelay/internal/apperr"
	"github.com/smallbiznis/feedbackrelay/internal/clock"
	"github.com/smallbiznis/feedbackrelay/internal/draft/domain"
	"github.com/smallbiznis/feedbackrelay/internal/draft/repository"
	"github.com/smallbiznis/feedbackrelay/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(t *testing.T) (domain.Service, *gorm.DB, *clock.FakeClock) {
	t.Helper()
	db := dbtest.Open(t)
	clk := clock.NewFakeClock(time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC))
	return New(Params{DB: db, Log: zap.NewNop(), Clock: clk, Repo: repository.Provide()}), db, clk
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	values := map[string]any{
		"notes": "solid",
		"score": "3",
		"hire":  true,
		"langs": []any{"go", "sql"},
		"empty": nil,
	}
	require.NoError(t, svc.Save(ctx, "ev-1", "u1", values))

	got, err := svc.Load(ctx, "ev-1", "u1")
	require.NoError(t, err)
	assert.Equal(t, values, got)
}

func TestSaveEmptyCreatesNothing(t *testing.T) {
	svc, db, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, "ev-1", "u1", map[string]any{}))
	require.NoError(t, svc.Save(ctx, "ev-1", "u1", nil))
	assert.EqualValues(t, 0, dbtest.Count(t, db, "feedback_drafts", ""))

	got, err := svc.Load(ctx, "ev-1", "u1")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestSaveTwiceKeepsCreatedAt(t *testing.T) {
	svc, db, clk := newService(t)
	ctx := context.Background()
	repo := repository.Provide()

	require.NoError(t, svc.Save(ctx, "ev-1", "u1", map[string]any{"notes": "first", "extra": "x"}))
	before, err := repo.Find(ctx, db, "ev-1", "u1")
	require.NoError(t, err)
	require.NotNil(t, before)

	clk.Advance(5 * time.Minute)
	require.NoError(t, svc.Save(ctx, "ev-1", "u1", map[string]any{"notes": "second"}))

	after, err := repo.Find(ctx, db, "ev-1", "u1")
	require.NoError(t, err)
	require.NotNil(t, after)
	assert.True(t, after.CreatedAt.Equal(before.CreatedAt))
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))

	got, err := svc.Load(ctx, "ev-1", "u1")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"notes": "second"}, got)
}

func TestDeleteIsUnconditional(t *testing.T) {
	svc, db, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, "ev-1", "u1"))
	require.NoError(t, svc.Save(ctx, "ev-1", "u1", map[string]any{"notes": "x"}))
	require.NoError(t, svc.Save(ctx, "ev-1", "u2", map[string]any{"notes": "y"}))
	require.NoError(t, svc.Delete(ctx, "ev-1", "u1"))

	assert.EqualValues(t, 1, dbtest.Count(t, db, "feedback_drafts", ""))
	got, err := svc.Load(ctx, "ev-1", "u1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRejectsMissingPair(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	err := svc.Save(ctx, "", "u1", map[string]any{"a": 1})
	assert.True(t, apperr.IsKind(err, apperr.KindMalformedInput))
	_, err = svc.Load(ctx, "ev-1", " ")
	assert.True(t, apperr.IsKind(err, apperr.KindMalformedInput))
}
