package db

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"legal_practice/internal/apperrors"
	"legal_practice/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		MongoURI:                    "mongodb://127.0.0.1:1/legal-test",
		MongoMaxPoolSize:            10,
		MongoServerSelectionTimeout: 50 * time.Millisecond,
		MongoSocketTimeout:          time.Second,
		MongoConnectAttempts:        3,
	}
}

// lazyClient returns a client that never dials until used
func lazyClient(t *testing.T) *mongo.Client {
	t.Helper()
	client, err := mongo.Connect(options.Client().ApplyURI("mongodb://127.0.0.1:1"))
	require.NoError(t, err)
	return client
}

func countMessages(hook *test.Hook, msg string) int {
	n := 0
	for _, e := range hook.AllEntries() {
		if e.Message == msg {
			n++
		}
	}
	return n
}

func newTestManager(t *testing.T, dial DialFunc) (*Manager, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	m := NewManager(testConfig(), logger,
		WithDialFunc(dial),
		WithBackOff(backoff.NewConstantBackOff(time.Millisecond)),
	)
	t.Cleanup(func() { _ = m.Close(context.Background()) })
	return m, hook
}

func TestConnectRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	m, hook := newTestManager(t, func(ctx context.Context, _ *options.ClientOptions) (*mongo.Client, error) {
		if calls.Add(1) < 3 {
			return nil, errors.New("connection refused")
		}
		return lazyClient(t), nil
	})

	require.NoError(t, m.Connect(context.Background()))
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, Connected, m.State())
	assert.NotNil(t, m.Database())
	assert.Equal(t, "legal-test", m.Database().Name())
	assert.Equal(t, 2, countMessages(hook, "MongoDB connection attempt failed"))
	assert.Equal(t, 1, countMessages(hook, "MongoDB connected"))
}

func TestConnectGivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	m, hook := newTestManager(t, func(ctx context.Context, _ *options.ClientOptions) (*mongo.Client, error) {
		calls.Add(1)
		return nil, errors.New("no reachable servers")
	})

	err := m.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindConnection))
	assert.Equal(t, 503, apperrors.HTTPStatus(err))
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, Disconnected, m.State())
	assert.Nil(t, m.Database())
	assert.Equal(t, 1, countMessages(hook, "MongoDB connection failed"))
}

func TestConcurrentConnectSharesOneAttempt(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	m, hook := newTestManager(t, func(ctx context.Context, _ *options.ClientOptions) (*mongo.Client, error) {
		calls.Add(1)
		<-release
		return lazyClient(t), nil
	})

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = m.Connect(context.Background())
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, countMessages(hook, "MongoDB connected"))
}

func TestConnectWhenConnectedIsSilent(t *testing.T) {
	m, hook := newTestManager(t, func(ctx context.Context, _ *options.ClientOptions) (*mongo.Client, error) {
		return lazyClient(t), nil
	})
	require.NoError(t, m.Connect(context.Background()))
	before := len(hook.AllEntries())

	for i := 0; i < 5; i++ {
		require.NoError(t, m.Connect(context.Background()))
	}
	assert.Len(t, hook.AllEntries(), before)
}

func TestHeartbeatTransitions(t *testing.T) {
	m, hook := newTestManager(t, func(ctx context.Context, _ *options.ClientOptions) (*mongo.Client, error) {
		return lazyClient(t), nil
	})
	require.NoError(t, m.Connect(context.Background()))

	m.heartbeatFailed(errors.New("socket closed"))
	m.heartbeatFailed(errors.New("socket closed"))
	assert.Equal(t, Disconnected, m.State())
	assert.Equal(t, 1, countMessages(hook, "MongoDB disconnected"))

	m.heartbeatSucceeded()
	m.heartbeatSucceeded()
	assert.Equal(t, Connected, m.State())
	assert.Equal(t, 2, countMessages(hook, "MongoDB connected"))
}

func TestHeartbeatIgnoredWhileNeverConnected(t *testing.T) {
	m, hook := newTestManager(t, func(ctx context.Context, _ *options.ClientOptions) (*mongo.Client, error) {
		return nil, errors.New("unused")
	})

	m.heartbeatSucceeded()
	m.heartbeatFailed(nil)
	assert.Equal(t, Disconnected, m.State())
	assert.Empty(t, hook.AllEntries())
}

func TestCloseIsIdempotent(t *testing.T) {
	m, _ := newTestManager(t, func(ctx context.Context, _ *options.ClientOptions) (*mongo.Client, error) {
		return lazyClient(t), nil
	})
	require.NoError(t, m.Connect(context.Background()))

	require.NoError(t, m.Close(context.Background()))
	require.NoError(t, m.Close(context.Background()))
	assert.Equal(t, Disconnected, m.State())

	_, err := m.Collection(context.Background(), "cases")
	require.NoError(t, err, "Collection reconnects after close")
	assert.Equal(t, Connected, m.State())
}

func TestClientOptionsCarrySettings(t *testing.T) {
	m, _ := newTestManager(t, nil)
	opts := m.clientOptions()

	require.NotNil(t, opts.MaxPoolSize)
	assert.Equal(t, uint64(10), *opts.MaxPoolSize)
	require.NotNil(t, opts.ServerSelectionTimeout)
	assert.Equal(t, 50*time.Millisecond, *opts.ServerSelectionTimeout)
	require.NotNil(t, opts.Timeout)
	assert.Equal(t, time.Second, *opts.Timeout)
	assert.NotNil(t, opts.ServerMonitor)
}

func TestCancelledCallerDoesNotFailSharedConnect(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	m, _ := newTestManager(t, func(ctx context.Context, _ *options.ClientOptions) (*mongo.Client, error) {
		calls.Add(1)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return lazyClient(t), nil
	})

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() { firstErr <- m.Connect(first) }()
	require.Eventually(t, func() bool { return m.State() == Connecting }, time.Second, time.Millisecond)

	cancel()
	err := <-firstErr
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindConnection))
	assert.ErrorIs(t, err, context.Canceled)

	secondErr := make(chan error, 1)
	go func() { secondErr <- m.Connect(context.Background()) }()
	time.Sleep(10 * time.Millisecond)
	close(release)

	require.NoError(t, <-secondErr)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, Connected, m.State())
	assert.NotNil(t, m.Database())
}

func TestCloseDuringConnectDiscardsClient(t *testing.T) {
	release := make(chan struct{})
	dialed := lazyClient(t)
	m, hook := newTestManager(t, func(ctx context.Context, _ *options.ClientOptions) (*mongo.Client, error) {
		<-release
		return dialed, nil
	})

	connectErr := make(chan error, 1)
	go func() { connectErr <- m.Connect(context.Background()) }()
	require.Eventually(t, func() bool { return m.State() == Connecting }, time.Second, time.Millisecond)

	require.NoError(t, m.Close(context.Background()))
	close(release)

	err := <-connectErr
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindConnection))
	assert.Equal(t, Disconnected, m.State())
	assert.Nil(t, m.Database())
	assert.Equal(t, 1, countMessages(hook, "Discarded MongoDB client opened during close"))
	assert.ErrorIs(t, dialed.Disconnect(context.Background()), mongo.ErrClientDisconnected)
}

func TestConnectTimeoutCoversEveryAttempt(t *testing.T) {
	m, _ := newTestManager(t, nil)
	assert.Equal(t, 3*(50*time.Millisecond+maxRetryInterval), m.connectTimeout())
}
