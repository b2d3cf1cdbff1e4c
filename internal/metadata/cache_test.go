package metadata_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/imamik/hpcgate/internal/metadata"
	hpctest "github.com/imamik/hpcgate/internal/testing"
	"github.com/imamik/hpcgate/internal/util/retry"
)

func fastRetry() metadata.Option {
	return metadata.WithRetry(retry.WithInitialDelay(time.Millisecond), retry.WithMaxDelay(2*time.Millisecond))
}

func TestCache_SameKeyQueriedOnce(t *testing.T) {
	t.Parallel()
	fake := hpctest.NewStandardFake()
	cache := metadata.NewCache(fake)
	ctx := hpctest.TestContext(t)

	first, err := cache.InstanceType(ctx, "c5n.18xlarge")
	require.NoError(t, err)
	second, err := cache.InstanceType(ctx, "c5n.18xlarge")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), fake.Calls(metadata.KindInstanceType))

	stats := cache.Stats()
	assert.Equal(t, int64(1), stats.ExternalCalls[metadata.KindInstanceType])
	assert.Equal(t, int64(1), stats.Hits[metadata.KindInstanceType])
}

func TestCache_ConcurrentCallersCoalesce(t *testing.T) {
	t.Parallel()
	fake := hpctest.NewStandardFake()
	fake.Delay = 20 * time.Millisecond
	cache := metadata.NewCache(fake)
	ctx := hpctest.TestContext(t)

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			az, err := cache.SubnetAvailabilityZone(ctx, hpctest.ComputeSubnetB)
			assert.NoError(t, err)
			results[i] = az
		}()
	}
	wg.Wait()

	for _, az := range results {
		assert.Equal(t, "us-east-1b", az)
	}
	assert.Equal(t, int64(1), fake.Calls(metadata.KindSubnetAZ))
}

func TestCache_PartitionsAreIndependent(t *testing.T) {
	t.Parallel()
	fake := hpctest.NewStandardFake()
	cache := metadata.NewCache(fake)
	ctx := hpctest.TestContext(t)

	_, err := cache.InstanceType(ctx, "c5.xlarge")
	require.NoError(t, err)
	_, err = cache.SubnetAvailabilityZone(ctx, hpctest.ComputeSubnetA)
	require.NoError(t, err)
	_, err = cache.SecurityGroupRules(ctx, hpctest.EfaSecurityGroup)
	require.NoError(t, err)
	_, err = cache.CapacityReservation(ctx, hpctest.ReservationZoneA)
	require.NoError(t, err)
	exists, err := cache.ImageExists(ctx, hpctest.CustomImage)
	require.NoError(t, err)
	assert.True(t, exists)

	for _, k := range metadata.Kinds() {
		assert.Equal(t, int64(1), fake.Calls(k), string(k))
	}
}

func TestCache_NotFoundIsCachedValue(t *testing.T) {
	t.Parallel()
	fake := hpctest.NewStandardFake()
	cache := metadata.NewCache(fake, fastRetry())
	ctx := hpctest.TestContext(t)

	for range 3 {
		_, err := cache.InstanceType(ctx, "c7.unknown")
		require.Error(t, err)
		assert.True(t, metadata.IsNotFound(err))
		assert.False(t, metadata.IsAbort(err))

		var le *metadata.LookupError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, metadata.ClassNotFound, le.Class)
		assert.Equal(t, "c7.unknown", le.Key)
	}
	assert.Equal(t, int64(1), fake.Calls(metadata.KindInstanceType))
}

func TestCache_TransientRetriedThenAborts(t *testing.T) {
	t.Parallel()
	fake := hpctest.NewStandardFake()
	fake.SetError(metadata.KindSubnetAZ, hpctest.ComputeSubnetA, metadata.Transient(errors.New("RequestLimitExceeded")))
	cache := metadata.NewCache(fake, fastRetry())
	ctx := hpctest.TestContext(t)

	_, err := cache.SubnetAvailabilityZone(ctx, hpctest.ComputeSubnetA)
	require.Error(t, err)
	assert.True(t, metadata.IsAbort(err))
	assert.ErrorIs(t, err, metadata.ErrTransient)
	assert.True(t, retry.IsExhausted(err))
	assert.Equal(t, int64(3), fake.Calls(metadata.KindSubnetAZ))

	// The exhausted result is kept for the rest of the run.
	_, err = cache.SubnetAvailabilityZone(ctx, hpctest.ComputeSubnetA)
	require.Error(t, err)
	assert.Equal(t, int64(3), fake.Calls(metadata.KindSubnetAZ))
}

func TestCache_TransientThenSuccess(t *testing.T) {
	t.Parallel()
	m := &hpctest.MockCollaborator{}
	m.On("GetSubnetAvailabilityZone", mock.Anything, "subnet-1").
		Return("", metadata.Transient(errors.New("Throttling"))).Once()
	m.On("GetSubnetAvailabilityZone", mock.Anything, "subnet-1").
		Return("eu-west-1c", nil).Once()

	cache := metadata.NewCache(m, fastRetry())
	az, err := cache.SubnetAvailabilityZone(hpctest.TestContext(t), "subnet-1")
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1c", az)
	assert.Equal(t, int64(2), cache.Stats().ExternalCalls[metadata.KindSubnetAZ])
	m.AssertExpectations(t)
}

func TestCache_FatalNotRetried(t *testing.T) {
	t.Parallel()
	fake := hpctest.NewStandardFake()
	fake.SetError(metadata.KindSecurityGroupRules, hpctest.EfaSecurityGroup, errors.New("UnauthorizedOperation"))
	cache := metadata.NewCache(fake, fastRetry())

	_, err := cache.SecurityGroupRules(hpctest.TestContext(t), hpctest.EfaSecurityGroup)
	require.Error(t, err)
	assert.ErrorIs(t, err, metadata.ErrFatal)
	assert.True(t, metadata.IsAbort(err))
	assert.Contains(t, err.Error(), "UnauthorizedOperation")
	assert.Equal(t, int64(1), fake.Calls(metadata.KindSecurityGroupRules))
}

func TestCache_ImageNotFoundIsFalse(t *testing.T) {
	t.Parallel()
	cache := metadata.NewCache(hpctest.NewStandardFake())

	exists, err := cache.ImageExists(hpctest.TestContext(t), "ami-missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCache_CancelledLookupNotCached(t *testing.T) {
	t.Parallel()
	fake := hpctest.NewStandardFake()
	fake.Delay = 50 * time.Millisecond
	cache := metadata.NewCache(fake)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := cache.InstanceType(ctx, "c5.xlarge")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	fake.Delay = 0
	info, err := cache.InstanceType(hpctest.TestContext(t), "c5.xlarge")
	require.NoError(t, err)
	assert.Equal(t, 4, info.VCPUs)
}

func TestCache_UnknownKind(t *testing.T) {
	t.Parallel()
	cache := metadata.NewCache(hpctest.NewStandardFake())

	_, err := cache.Get(hpctest.TestContext(t), metadata.QueryKind("volume"), "vol-1")
	assert.ErrorContains(t, err, `unknown metadata query kind "volume"`)
}

func TestCache_Prefetch(t *testing.T) {
	t.Parallel()
	fake := hpctest.NewStandardFake()
	cache := metadata.NewCache(fake, metadata.WithConcurrency(2))
	ctx := hpctest.TestContext(t)

	err := cache.Prefetch(ctx, []metadata.Query{
		{Kind: metadata.KindInstanceType, Key: "c5.xlarge"},
		{Kind: metadata.KindInstanceType, Key: "c5.xlarge"},
		{Kind: metadata.KindInstanceType, Key: "does.notexist"},
		{Kind: metadata.KindSubnetAZ, Key: hpctest.ComputeSubnetA},
		{Kind: metadata.KindSubnetAZ, Key: ""},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), fake.Calls(metadata.KindInstanceType))
	assert.Equal(t, int64(1), fake.Calls(metadata.KindSubnetAZ))

	_, err = cache.InstanceType(ctx, "c5.xlarge")
	require.NoError(t, err)
	assert.Equal(t, int64(2), fake.Calls(metadata.KindInstanceType))
}

func TestCache_PrefetchReportsAbortingErrors(t *testing.T) {
	t.Parallel()
	fake := hpctest.NewStandardFake()
	fake.SetError(metadata.KindImage, hpctest.CustomImage, errors.New("AccessDenied"))
	cache := metadata.NewCache(fake)

	err := cache.Prefetch(hpctest.TestContext(t), []metadata.Query{
		{Kind: metadata.KindImage, Key: hpctest.CustomImage},
		{Kind: metadata.KindSubnetAZ, Key: hpctest.ComputeSubnetA},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image-exists/"+hpctest.CustomImage)
}

func TestCache_Metrics(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	m := metadata.NewMetrics(reg)
	cache := metadata.NewCache(hpctest.NewStandardFake(), metadata.WithMetrics(m))
	ctx := hpctest.TestContext(t)

	for range 3 {
		_, err := cache.InstanceType(ctx, "m6g.xlarge")
		require.NoError(t, err)
	}

	kind := string(metadata.KindInstanceType)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ExternalCalls.WithLabelValues(kind)))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.CacheHits.WithLabelValues(kind)))
}
