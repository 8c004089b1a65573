package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsCache_InvalidateSchool(t *testing.T) {
	ctx := context.Background()
	c := NewAnalyticsCache(NewMemoryStore(), time.Minute)

	schoolA, schoolB := uuid.New(), uuid.New()
	ka := AnalyticsKey{SchoolID: schoolA, Role: "school_admin"}
	kb := AnalyticsKey{SchoolID: schoolB, Role: "school_admin"}

	c.Set(ctx, ka, []byte("a"))
	c.Set(ctx, kb, []byte("b"))

	got, ok := c.Get(ctx, ka)
	require.True(t, ok)
	assert.Equal(t, "a", string(got))

	c.InvalidateSchool(ctx, schoolA)

	_, ok = c.Get(ctx, ka)
	assert.False(t, ok, "entry sekolah A harus hilang setelah invalidasi")

	got, ok = c.Get(ctx, kb)
	require.True(t, ok, "sekolah lain tidak ikut terhapus")
	assert.Equal(t, "b", string(got))
}

func TestAnalyticsKey_SeparatesClassTeachers(t *testing.T) {
	school := uuid.New()
	u1, u2 := uuid.New(), uuid.New()

	k1 := AnalyticsKey{SchoolID: school, Role: "class_teacher", UserID: &u1}
	k2 := AnalyticsKey{SchoolID: school, Role: "class_teacher", UserID: &u2}
	k3 := AnalyticsKey{SchoolID: school, ClassName: "ม.5/1", Role: "school_admin"}

	assert.NotEqual(t, k1.String(), k2.String())
	assert.NotEqual(t, k1.String(), k3.String())
}

func TestMemoryStore_TTL(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Minute))
	_, ok, _ := m.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok, _ = m.Get(ctx, "k")
	assert.False(t, ok)
}

func TestAnalyticsCache_StaleStoreAfterInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewAnalyticsCache(NewMemoryStore(), time.Minute)
	k := AnalyticsKey{SchoolID: uuid.New(), Role: "school_admin"}

	entry, _, ok := c.Lookup(ctx, k)
	require.False(t, ok)

	// mutasi terjadi selama hitungan berjalan
	c.InvalidateSchool(ctx, k.SchoolID)
	c.Store(ctx, entry, []byte("stale"))

	_, ok = c.Get(ctx, k)
	assert.False(t, ok, "hasil lama tidak boleh terbaca di versi baru")
}
