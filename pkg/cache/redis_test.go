package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fekuna/omnipos-pricing-service/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisClient_JSON(t *testing.T) {
	srv := miniredis.RunT(t)
	client, err := cache.NewRedisClient(&cache.Config{Addr: srv.Addr()})
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()

	var got []string
	ok, err := client.GetJSON(ctx, "columns:42", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, client.SetJSON(ctx, "columns:42", []string{"sku", "qty"}, time.Minute))

	ok, err = client.GetJSON(ctx, "columns:42", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"sku", "qty"}, got)

	srv.FastForward(2 * time.Minute)
	ok, err = client.GetJSON(ctx, "columns:42", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, client.SetJSON(ctx, "columns:42", []string{"sku"}, 0))
	require.NoError(t, client.Delete(ctx, "columns:42"))
	assert.False(t, srv.Exists("columns:42"))
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	_, err := cache.NewRedisClient(&cache.Config{Addr: addr})
	assert.Error(t, err)
}
