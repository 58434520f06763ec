package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"w9ayt_delivery_server/pkg/errorx"
)

// Key layout: presence:<userID> holds "1" while the user has a live
// realtime connection; unread:<userID>:<conversationID> counts messages
// received since the user last marked the conversation seen.

func presenceKey(userID int64) string {
	return "presence:" + strconv.FormatInt(userID, 10)
}

func unreadKey(userID, conversationID int64) string {
	return "unread:" + strconv.FormatInt(userID, 10) + ":" + strconv.FormatInt(conversationID, 10)
}

func (r *RedisCache) SetOnline(ctx context.Context, userID int64, ttl time.Duration) error {
	if err := r.client.Set(ctx, presenceKey(userID), "1", ttl).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "presence online user=%d", userID)
	}
	return nil
}

func (r *RedisCache) SetOffline(ctx context.Context, userID int64) error {
	if err := r.client.Del(ctx, presenceKey(userID)).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "presence offline user=%d", userID)
	}
	return nil
}

func (r *RedisCache) IsOnline(ctx context.Context, userID int64) (bool, error) {
	_, err := r.client.Get(ctx, presenceKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, errorx.Wrapf(err, errorx.CodeCacheError, "presence lookup user=%d", userID)
	}
	return true, nil
}

func (r *RedisCache) IncrUnread(ctx context.Context, userID, conversationID int64) error {
	if err := r.client.Incr(ctx, unreadKey(userID, conversationID)).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "incr unread user=%d conv=%d", userID, conversationID)
	}
	return nil
}

func (r *RedisCache) ResetUnread(ctx context.Context, userID, conversationID int64) error {
	if err := r.client.Del(ctx, unreadKey(userID, conversationID)).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "reset unread user=%d conv=%d", userID, conversationID)
	}
	return nil
}

func (r *RedisCache) GetUnread(ctx context.Context, userID, conversationID int64) (int64, error) {
	val, err := r.client.Get(ctx, unreadKey(userID, conversationID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, errorx.Wrapf(err, errorx.CodeCacheError, "get unread user=%d conv=%d", userID, conversationID)
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, nil
	}
	return n, nil
}
