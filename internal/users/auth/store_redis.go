// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/velkore/critiq/internal/platform/apperr"
	"github.com/velkore/critiq/internal/platform/constants"
)

// RedisCodeRepository implements [CodeRepository] using Redis.
//
// TTL enforcement is delegated to Redis key expiry, so stale codes vanish
// without a cleanup job.
type RedisCodeRepository struct {
	client *redis.Client
}

// NewCodeRepository creates a new Redis-backed [CodeRepository].
func NewCodeRepository(client *redis.Client) *RedisCodeRepository {
	return &RedisCodeRepository{client: client}
}

/*
Set stores a confirmation code hash for a username with the given TTL.

Parameters:
  - context: context.Context
  - username: string
  - codeHash: string (Bcrypt hash, never the plain code)
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisCodeRepository) Set(context context.Context, username, codeHash string, ttl time.Duration) error {
	key := constants.RedisPrefixConfirmationCode + username

	if err := repository.client.Set(context, key, codeHash, ttl).Err(); err != nil {
		return fmt.Errorf("redis_confirmation_code_set_failed: %w", err)
	}

	return nil
}

/*
Get retrieves the stored code hash for a username.

Description: Returns apperr.NotFound if no code is pending or it has expired.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - string: Stored code hash
  - error: apperr.NotFound or connectivity errors
*/
func (repository *RedisCodeRepository) Get(context context.Context, username string) (string, error) {
	key := constants.RedisPrefixConfirmationCode + username

	codeHash, err := repository.client.Get(context, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Confirmation code")
		}
		return "", fmt.Errorf("redis_confirmation_code_get_failed: %w", err)
	}

	return codeHash, nil
}

/*
Delete removes the stored code hash for a username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisCodeRepository) Delete(context context.Context, username string) error {
	key := constants.RedisPrefixConfirmationCode + username

	if err := repository.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_confirmation_code_delete_failed: %w", err)
	}

	return nil
}
