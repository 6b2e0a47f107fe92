package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tutorbook/tutorbook/internal/config"
	"github.com/tutorbook/tutorbook/internal/logger"
)

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()
	cfg := config.GetDefaultConfig()

	t.Run("set get delete", func(t *testing.T) {
		c := NewInMemoryCache(cfg, logger.NewNopLogger())
		key := GenerateKey(PrefixBusinessProfile, "tut_1")
		assert.Equal(t, "business_profile:v1::tut_1", key)

		c.Set(ctx, key, "profile", 0)
		value, found := c.Get(ctx, key)
		assert.True(t, found)
		assert.Equal(t, "profile", value)

		c.Delete(ctx, key)
		_, found = c.Get(ctx, key)
		assert.False(t, found)
	})

	t.Run("delete by prefix", func(t *testing.T) {
		c := NewInMemoryCache(cfg, logger.NewNopLogger())
		c.Set(ctx, GenerateKey(PrefixBusinessProfile, "tut_1"), 1, time.Minute)
		c.Set(ctx, GenerateKey(PrefixTutor, "tut_1"), 2, time.Minute)

		c.DeleteByPrefix(ctx, PrefixBusinessProfile)

		_, found := c.Get(ctx, GenerateKey(PrefixBusinessProfile, "tut_1"))
		assert.False(t, found)
		_, found = c.Get(ctx, GenerateKey(PrefixTutor, "tut_1"))
		assert.True(t, found)
	})

	t.Run("disabled cache always misses", func(t *testing.T) {
		disabled := config.GetDefaultConfig()
		disabled.Cache.Enabled = false
		c := NewInMemoryCache(disabled, logger.NewNopLogger())

		c.Set(ctx, "k", "v", time.Minute)
		_, found := c.Get(ctx, "k")
		assert.False(t, found)
	})
}
