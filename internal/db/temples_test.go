package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/heritage-map/internal/service"
)

func ptr(v float64) *float64 { return &v }

func TestIndexAndSearch(t *testing.T) {
	conn, err := Open(Config{DataDir: t.TempDir(), DBName: "test"})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	ctx := context.Background()
	n, err := IndexTemples(ctx, conn, map[string][]service.Temple{
		"karnataka": {
			{Name: "Virupaksha Temple", Location: "Hampi", Deity: "Shiva", NormalizedX: ptr(0.25), NormalizedY: ptr(0.75)},
			{Name: "Udupi Sri Krishna Matha", Location: "Udupi", Deity: "Krishna"},
		},
		"odisha": {
			{Name: "Jagannath Temple", Location: "Puri", Deity: "Jagannath"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	hits, err := SearchTemples(ctx, conn, "temple", 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "karnataka", hits[0].Region)
	assert.Equal(t, 0, hits[0].Index)
	require.NotNil(t, hits[0].Temple.NormalizedX)
	assert.Equal(t, 0.25, *hits[0].Temple.NormalizedX)
	assert.Equal(t, "odisha", hits[1].Region)

	hits, err = SearchTemples(ctx, conn, "KRISHNA", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 1, hits[0].Index)
	assert.Nil(t, hits[0].Temple.NormalizedX)

	hits, err = SearchTemples(ctx, conn, "  ", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndexReplaces(t *testing.T) {
	conn, err := Open(Config{})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	ctx := context.Background()
	_, err = IndexTemples(ctx, conn, map[string][]service.Temple{"goa": {{Name: "Mangueshi Temple"}}})
	require.NoError(t, err)
	_, err = IndexTemples(ctx, conn, map[string][]service.Temple{"kerala": {{Name: "Padmanabhaswamy Temple"}}})
	require.NoError(t, err)

	hits, err := SearchTemples(ctx, conn, "temple", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "kerala", hits[0].Region)
}
