package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"courierflow/internal/logx"
)

func withStubNewPool(t *testing.T, stub func(context.Context, string) (*pgxpool.Pool, error)) {
	t.Helper()
	orig := newPool
	newPool = stub
	t.Cleanup(func() { newPool = orig })
}

func TestConnectDbWithRetry_SuccessFirstAttempt(t *testing.T) {
	ctx := context.Background()
	dsn := "postgres://stub"

	wantPool := &pgxpool.Pool{}
	calls := 0

	withStubNewPool(t, func(_ context.Context, _ string) (*pgxpool.Pool, error) {
		calls++
		return wantPool, nil
	})

	pool, err := connectDbWithRetry(ctx, logx.Nop(), dsn, 3, 10*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, wantPool, pool)
	require.Equal(t, 1, calls)
}

func TestConnectDbWithRetry_SucceedsAfterFailures(t *testing.T) {
	ctx := context.Background()

	wantPool := &pgxpool.Pool{}
	calls := 0

	withStubNewPool(t, func(_ context.Context, _ string) (*pgxpool.Pool, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("not yet")
		}
		return wantPool, nil
	})

	pool, err := connectDbWithRetry(ctx, logx.Nop(), "postgres://stub", 5, 0)
	require.NoError(t, err)
	require.Equal(t, wantPool, pool)
	require.Equal(t, 3, calls)
}

func TestConnectDbWithRetry_ExhaustsRetries(t *testing.T) {
	ctx := context.Background()

	sentinelErr := errors.New("db boom")
	calls := 0

	withStubNewPool(t, func(_ context.Context, _ string) (*pgxpool.Pool, error) {
		calls++
		return nil, sentinelErr
	})

	pool, err := connectDbWithRetry(ctx, logx.Nop(), "postgres://stub", 3, 0)
	require.Error(t, err)
	require.Nil(t, pool)
	require.Equal(t, 3, calls)
	require.ErrorIs(t, err, sentinelErr)
}

func TestConnectDbWithRetry_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	withStubNewPool(t, func(_ context.Context, _ string) (*pgxpool.Pool, error) {
		cancel()
		return nil, errors.New("refused")
	})

	pool, err := connectDbWithRetry(ctx, logx.Nop(), "postgres://stub", 3, time.Minute)
	require.Nil(t, pool)
	require.ErrorIs(t, err, context.Canceled)
}
