package kv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoriaAllowRate(t *testing.T) {
	ctx := context.Background()
	agora := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NovaMemoria()
	m.agora = func() time.Time { return agora }

	for i := 1; i <= 3; i++ {
		ok, n, err := m.AllowRate(ctx, "link:a@b.com", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.EqualValues(t, i, n)
	}

	ok, n, err := m.AllowRate(ctx, "link:a@b.com", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.EqualValues(t, 4, n)

	agora = agora.Add(2 * time.Minute)
	ok, n, _ = m.AllowRate(ctx, "link:a@b.com", 3, time.Minute)
	assert.True(t, ok)
	assert.EqualValues(t, 1, n)
}

func TestMemoriaSetGetDel(t *testing.T) {
	ctx := context.Background()
	agora := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NovaMemoria()
	m.agora = func() time.Time { return agora }

	require.NoError(t, m.Set(ctx, "cap:s1", "admin", time.Minute))
	v, err := m.Get(ctx, "cap:s1")
	require.NoError(t, err)
	assert.Equal(t, "admin", v)

	require.NoError(t, m.Del(ctx, "cap:s1"))
	v, _ = m.Get(ctx, "cap:s1")
	assert.Empty(t, v)

	require.NoError(t, m.Set(ctx, "cap:s2", "membro", time.Second))
	agora = agora.Add(time.Second)
	v, _ = m.Get(ctx, "cap:s2")
	assert.Empty(t, v, "valor expirado não deve voltar")
}
