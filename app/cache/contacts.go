package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vibast-solutions/ms-go-contacts/app/entity"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const contactsPrefix = "contacts"

// ContactLists caches owner listings under a per-owner generation number.
// Invalidation bumps the generation, so stale pages are never read again and
// expire on their own TTL.
type ContactLists struct {
	rc  redis.Cmdable
	ttl time.Duration
}

func NewContactLists(rc redis.Cmdable, ttl time.Duration) *ContactLists {
	return &ContactLists{rc: rc, ttl: ttl}
}

func (c *ContactLists) GetList(ctx context.Context, ownerID uint64, skip, limit int) ([]*entity.Contact, bool) {
	gen, err := c.generation(ctx, ownerID)
	if err != nil {
		logrus.WithError(err).WithField("owner_id", ownerID).Warn("Contact cache unavailable")
		return nil, false
	}

	raw, err := c.rc.Get(ctx, pageKey(ownerID, gen, skip, limit)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		logrus.WithError(err).WithField("owner_id", ownerID).Warn("Contact cache read failed")
		return nil, false
	}

	var contacts []*entity.Contact
	if err = json.Unmarshal(raw, &contacts); err != nil {
		logrus.WithError(err).WithField("owner_id", ownerID).Warn("Contact cache entry is corrupt")
		return nil, false
	}
	return contacts, true
}

func (c *ContactLists) SetList(ctx context.Context, ownerID uint64, skip, limit int, contacts []*entity.Contact) {
	gen, err := c.generation(ctx, ownerID)
	if err != nil {
		logrus.WithError(err).WithField("owner_id", ownerID).Warn("Contact cache unavailable")
		return
	}

	raw, err := json.Marshal(contacts)
	if err != nil {
		logrus.WithError(err).Error("Failed to encode contact listing")
		return
	}

	if err = c.rc.Set(ctx, pageKey(ownerID, gen, skip, limit), raw, c.ttl).Err(); err != nil {
		logrus.WithError(err).WithField("owner_id", ownerID).Warn("Contact cache write failed")
	}
}

func (c *ContactLists) Invalidate(ctx context.Context, ownerID uint64) {
	if err := c.rc.Incr(ctx, generationKey(ownerID)).Err(); err != nil {
		logrus.WithError(err).WithField("owner_id", ownerID).Error("Contact cache invalidation failed")
	}
}

func (c *ContactLists) generation(ctx context.Context, ownerID uint64) (int64, error) {
	gen, err := c.rc.Get(ctx, generationKey(ownerID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func generationKey(ownerID uint64) string {
	return fmt.Sprintf("%s:%d:gen", contactsPrefix, ownerID)
}

func pageKey(ownerID uint64, gen int64, skip, limit int) string {
	return fmt.Sprintf("%s:%d:v%d:%d:%d", contactsPrefix, ownerID, gen, skip, limit)
}
