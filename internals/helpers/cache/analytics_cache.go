package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"phqa_backend/internals/helpers/logger"
)

// SchoolInvalidator dipanggil setiap ada mutasi hasil PHQ / progres aktivitas.
// Fire-and-forget: error hanya dicatat.
type SchoolInvalidator interface {
	InvalidateSchool(ctx context.Context, schoolID uuid.UUID)
}

// NopInvalidator untuk service yang dipakai tanpa cache (mis. seeding).
type NopInvalidator struct{}

func (NopInvalidator) InvalidateSchool(context.Context, uuid.UUID) {}

// AnalyticsKey: (school, filter kelas, role[, user untuk class teacher])
type AnalyticsKey struct {
	SchoolID  uuid.UUID
	ClassName string
	Role      string
	UserID    *uuid.UUID
}

func (k AnalyticsKey) String() string {
	s := fmt.Sprintf("%s|%s|%s", k.SchoolID, k.ClassName, k.Role)
	if k.UserID != nil {
		s += "|" + k.UserID.String()
	}
	return s
}

// AnalyticsCache menyimpan snapshot analitik per sekolah.
// Invalidasi = menaikkan versi sekolah; key lama otomatis tidak terbaca lagi dan kedaluwarsa oleh TTL.
type AnalyticsCache struct {
	store Store
	ttl   time.Duration
}

func NewAnalyticsCache(store Store, ttl time.Duration) *AnalyticsCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &AnalyticsCache{store: store, ttl: ttl}
}

func versionKey(schoolID uuid.UUID) string {
	return "phqa:analytics:ver:" + schoolID.String()
}

func (c *AnalyticsCache) entryKey(ctx context.Context, k AnalyticsKey) (string, error) {
	ver, err := c.store.Counter(ctx, versionKey(k.SchoolID))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("phqa:analytics:v%d:%s", ver, k.String()), nil
}

// Lookup mengembalikan key terversi + nilai. Key yang sama dipakai lagi di Store
// supaya hasil hitungan yang dimulai sebelum invalidasi tidak tersimpan di versi baru.
func (c *AnalyticsCache) Lookup(ctx context.Context, k AnalyticsKey) (entry string, val []byte, ok bool) {
	entry, err := c.entryKey(ctx, k)
	if err != nil {
		logger.Warn("analytics cache version read failed", "school_id", k.SchoolID, "error", err)
		return "", nil, false
	}
	b, ok, err := c.store.Get(ctx, entry)
	if err != nil {
		logger.Warn("analytics cache get failed", "key", entry, "error", err)
		return entry, nil, false
	}
	return entry, b, ok
}

func (c *AnalyticsCache) Store(ctx context.Context, entry string, val []byte) {
	if entry == "" {
		return
	}
	if err := c.store.Set(ctx, entry, val, c.ttl); err != nil {
		logger.Warn("analytics cache set failed", "key", entry, "error", err)
	}
}

func (c *AnalyticsCache) Get(ctx context.Context, k AnalyticsKey) ([]byte, bool) {
	_, b, ok := c.Lookup(ctx, k)
	return b, ok
}

func (c *AnalyticsCache) Set(ctx context.Context, k AnalyticsKey, val []byte) {
	entry, err := c.entryKey(ctx, k)
	if err != nil {
		logger.Warn("analytics cache version read failed", "school_id", k.SchoolID, "error", err)
		return
	}
	c.Store(ctx, entry, val)
}

func (c *AnalyticsCache) InvalidateSchool(ctx context.Context, schoolID uuid.UUID) {
	if schoolID == uuid.Nil {
		return
	}
	if _, err := c.store.Incr(ctx, versionKey(schoolID)); err != nil {
		logger.Warn("analytics cache invalidate failed", "school_id", schoolID, "error", err)
	}
}
