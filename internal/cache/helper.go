package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	communityTopSongsPrefix = "community:%d:top_songs"
	friendsFeedPrefix       = "user:%d:friends_feed"
)

const (
	// CommunityTopSongsTTL bounds how stale the aggregated top-songs view may get.
	CommunityTopSongsTTL = 5 * time.Minute
	// FriendsFeedTTL bounds staleness of the aggregated friends activity feed.
	FriendsFeedTTL = 30 * time.Second
)

// CommunityTopSongsKey returns the cache key for a community's top songs.
func CommunityTopSongsKey(communityID uint) string {
	return fmt.Sprintf(communityTopSongsPrefix, communityID)
}

// FriendsFeedKey returns the cache key for a user's friends activity feed.
func FriendsFeedKey(userID uint) string {
	return fmt.Sprintf(friendsFeedPrefix, userID)
}

// Invalidate removes the key from Redis if a client is configured.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	s, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, b, ttl).Err()
}

// CacheAside tries Redis first, on miss it calls fetch (which should populate dest),
// then stores the result in Redis with ttl. fetch must write into dest.
func CacheAside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := GetJSON(ctx, key, dest)
	if err != nil {
		return err
	}
	if found {
		return nil
	}

	if err := fetch(); err != nil {
		return err
	}

	// Store into cache (best-effort)
	_ = SetJSON(ctx, key, dest, ttl)
	return nil
}
