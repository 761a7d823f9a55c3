package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/pixelarena/internal/testutil"
)

func TestPool_HealthAndApplicationName(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	ctx := context.Background()

	require.NoError(t, pc.Pool.Health(ctx, 5*time.Second))

	var name string
	require.NoError(t, pc.RawPool.QueryRow(ctx, `SELECT current_setting('application_name')`).Scan(&name))
	assert.Equal(t, "pixelarena", name)
}

func TestPool_HealthFailsAfterClose(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	pc.Pool.Close()
	assert.Error(t, pc.Pool.Health(context.Background(), time.Second))
}
