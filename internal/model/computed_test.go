package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/hpcgate/internal/config"
	"github.com/imamik/hpcgate/internal/metadata"
	"github.com/imamik/hpcgate/internal/model"
	hpctest "github.com/imamik/hpcgate/internal/testing"
	"github.com/imamik/hpcgate/internal/util/ptr"
)

func TestComputedAttributes_SingleQuery(t *testing.T) {
	t.Parallel()

	fake := hpctest.NewStandardFake()
	cache := metadata.NewCache(fake)
	ctx := hpctest.TestContext(t)

	c, err := model.Build(hpctest.NewDocumentBuilder().WithHeadNodeInstanceType("m6g.xlarge").Build())
	require.NoError(t, err)

	for range 3 {
		arch, err := c.HeadNode.Architecture(ctx, cache)
		require.NoError(t, err)
		assert.Equal(t, metadata.ArchARM64, arch)

		vcpus, err := c.HeadNode.VCPUs(ctx, cache)
		require.NoError(t, err)
		assert.Equal(t, 4, vcpus)
	}
	assert.Equal(t, int64(1), fake.Calls(metadata.KindInstanceType))
}

func TestComputedAttributes_DisabledSMTUsesCores(t *testing.T) {
	t.Parallel()

	fake := hpctest.NewStandardFake()
	cache := metadata.NewCache(fake)
	ctx := hpctest.TestContext(t)

	doc := hpctest.NewDocumentBuilder().
		WithComputeResource(hpctest.DefaultQueue, config.ComputeResourceSpec{
			Name:                              "nosmt",
			InstanceType:                      ptr.String("c5n.18xlarge"),
			DisableSimultaneousMultithreading: ptr.Bool(true),
		}).
		Build()
	c, err := model.Build(doc)
	require.NoError(t, err)

	crs := c.AllComputeResources()
	require.Len(t, crs, 2)

	vcpus, err := crs[0].VCPUs(ctx, cache)
	require.NoError(t, err)
	assert.Equal(t, 4, vcpus)

	vcpus, err = crs[1].VCPUs(ctx, cache)
	require.NoError(t, err)
	assert.Equal(t, 36, vcpus)

	arch, err := crs[1].Architecture(ctx, cache)
	require.NoError(t, err)
	assert.Equal(t, metadata.ArchX86_64, arch)
}

func TestComputedAttributes_LookupFailureNotMemoized(t *testing.T) {
	t.Parallel()

	fake := hpctest.NewStandardFake()
	cache := metadata.NewCache(fake)
	ctx := hpctest.TestContext(t)

	c, err := model.Build(hpctest.NewDocumentBuilder().WithHeadNodeInstanceType("c9.unknown").Build())
	require.NoError(t, err)

	_, err = c.HeadNode.Architecture(ctx, cache)
	require.Error(t, err)
	assert.True(t, metadata.IsNotFound(err))

	_, err = c.HeadNode.Architecture(ctx, cache)
	require.Error(t, err)
	assert.Equal(t, int64(1), fake.Calls(metadata.KindInstanceType))
}
