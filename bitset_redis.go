package runset

import (
	"context"
	"fmt"
	"time"

	"github.com/kwertop/runset/internal/util"
	"github.com/redis/go-redis/v9"
)

// RedisStoreOptions controls how a bitset is saved in redis.
// _Compression_ frames the binary encoding with LZ4 or ZSTD.
// _TTL_ expires the key after the given duration; zero keeps it forever.
type RedisStoreOptions struct {
	Compression CompressionType
	TTL         time.Duration
}

func redisClientOrErr() (*redis.Client, error) {
	client := getRedisClient()
	if client == nil {
		return nil, fmt.Errorf("runset: %w", ErrRedisNotConfigured)
	}
	return client, nil
}

// SaveRedis stores the binary encoding of the bitset at redis key _key_,
// replacing any previous value
func (bitSet *CompressedBitSet) SaveRedis(ctx context.Context, key string, options RedisStoreOptions) error {
	client, err := redisClientOrErr()
	if err != nil {
		return err
	}
	data, err := bitSet.MarshalBinary()
	if err != nil {
		return err
	}
	framed, err := frame(data, options.Compression)
	if err != nil {
		return err
	}
	if err := client.Set(ctx, key, framed, options.TTL).Err(); err != nil {
		getLogger().ErrorContext(ctx, "saving bitset failed", "key", key, "error", err)
		return fmt.Errorf("runset: error while saving bitset to redis: %w", err)
	}
	getLogger().DebugContext(ctx, "bitset saved",
		"key", key,
		"runs", bitSet.RunCount(),
		"encoded", len(data),
		"stored", len(framed),
		"compression", options.Compression.String(),
	)
	return nil
}

// SaveRedisWithRandomKey stores the bitset at a newly generated redis key and returns the key
func (bitSet *CompressedBitSet) SaveRedisWithRandomKey(ctx context.Context, options RedisStoreOptions) (string, error) {
	key := util.GenerateRandomString(16)
	if err := bitSet.SaveRedis(ctx, key, options); err != nil {
		return "", err
	}
	return key, nil
}

// NewCompressedBitSetFromRedisKey creates a CompressedBitSet from the
// value saved at redis key _key_ by SaveRedis
func NewCompressedBitSetFromRedisKey(ctx context.Context, key string) (*CompressedBitSet, error) {
	client, err := redisClientOrErr()
	if err != nil {
		return nil, err
	}
	framed, err := client.Get(ctx, key).Bytes()
	if err != nil {
		getLogger().ErrorContext(ctx, "loading bitset failed", "key", key, "error", err)
		return nil, fmt.Errorf("runset: error while fetching bitset from redis: %w", err)
	}
	data, err := unframe(framed)
	if err != nil {
		return nil, err
	}
	bitSet := &CompressedBitSet{}
	if err := bitSet.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	getLogger().DebugContext(ctx, "bitset loaded", "key", key, "runs", bitSet.RunCount(), "stored", len(framed))
	return bitSet, nil
}

// DeleteRedis removes the bitset saved at redis key _key_
func DeleteRedis(ctx context.Context, key string) error {
	client, err := redisClientOrErr()
	if err != nil {
		return err
	}
	if err := client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("runset: error while deleting bitset from redis: %w", err)
	}
	getLogger().DebugContext(ctx, "bitset deleted", "key", key)
	return nil
}
