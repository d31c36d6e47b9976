package runset

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

var (
	mockRedisOnce sync.Once
	mockRedis     *miniredis.Miniredis
)

// initMockRedis starts one miniredis for the test binary, since the redis
// client is created only once per process.
func initMockRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mockRedisOnce.Do(func() {
		mr, err := miniredis.Run()
		if err != nil {
			t.Fatalf("error starting miniredis: %v", err)
		}
		connOptions, err := ParseRedisURI("redis://" + mr.Addr())
		if err != nil {
			t.Fatalf("error parsing redis uri: %v", err)
		}
		MakeRedisClient(*connOptions)
		mockRedis = mr
	})
	mockRedis.FlushAll()
	return mockRedis
}

func testRedisRoundTrip(t *testing.T, compression CompressionType) {
	initMockRedis(t)
	ctx := context.Background()
	aBitSet := newTestBitSet(t, 1<<32)
	for i := int64(0); i < 1<<20; i += 4096 {
		aBitSet.PutAllBits(i, i+100)
	}
	if err := aBitSet.SaveRedis(ctx, "bits", RedisStoreOptions{Compression: compression}); err != nil {
		t.Fatalf("error should be nil, got %v", err)
	}
	bBitSet, err := NewCompressedBitSetFromRedisKey(ctx, "bits")
	if err != nil {
		t.Fatalf("error should be nil, got %v", err)
	}
	checkInvariants(t, bBitSet)
	if ok, _ := aBitSet.Equals(bBitSet); !ok {
		t.Fatalf("bitset loaded with %v compression should be equal", compression)
	}
}

func TestBitSetRedisRoundTrip(t *testing.T) {
	testRedisRoundTrip(t, CompressionNone)
}

func TestBitSetRedisRoundTripLZ4(t *testing.T) {
	testRedisRoundTrip(t, CompressionLZ4)
}

func TestBitSetRedisRoundTripZSTD(t *testing.T) {
	testRedisRoundTrip(t, CompressionZSTD)
}

func TestBitSetRedisStoredLayout(t *testing.T) {
	mr := initMockRedis(t)
	bitSet := newTestBitSet(t, 10)
	bitSet.PutAllBits(2, 5)
	if err := bitSet.SaveRedis(context.Background(), "k", RedisStoreOptions{}); err != nil {
		t.Fatalf("error should be nil, got %v", err)
	}
	stored, err := mr.Get("k")
	if err != nil {
		t.Fatalf("key should exist, got %v", err)
	}
	data, _ := bitSet.MarshalBinary()
	if !bytes.Equal([]byte(stored), append([]byte{byte(CompressionNone)}, data...)) {
		t.Fatalf("stored value should be the framed encoding, got %v", []byte(stored))
	}
}

func TestBitSetRedisTTL(t *testing.T) {
	mr := initMockRedis(t)
	bitSet := newTestBitSet(t, 10)
	if err := bitSet.SaveRedis(context.Background(), "ttl", RedisStoreOptions{TTL: time.Minute}); err != nil {
		t.Fatalf("error should be nil, got %v", err)
	}
	if ttl := mr.TTL("ttl"); ttl != time.Minute {
		t.Fatalf("ttl should be 1m, got %v", ttl)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := NewCompressedBitSetFromRedisKey(context.Background(), "ttl"); err == nil {
		t.Fatal("expired key should not load")
	}
}

func TestBitSetRedisRandomKeyAndDelete(t *testing.T) {
	mr := initMockRedis(t)
	ctx := context.Background()
	bitSet := newTestBitSet(t, 10)
	bitSet.PutBit(9)
	key, err := bitSet.SaveRedisWithRandomKey(ctx, RedisStoreOptions{Compression: CompressionZSTD})
	if err != nil {
		t.Fatalf("error should be nil, got %v", err)
	}
	if len(key) != 16 || !mr.Exists(key) {
		t.Fatalf("bitset should be saved at a 16 letter key, got %q", key)
	}
	if err := DeleteRedis(ctx, key); err != nil {
		t.Fatalf("error should be nil, got %v", err)
	}
	if mr.Exists(key) {
		t.Fatalf("key %v should be deleted", key)
	}
}

func TestBitSetRedisMissingKey(t *testing.T) {
	initMockRedis(t)
	if _, err := NewCompressedBitSetFromRedisKey(context.Background(), "missing"); err == nil {
		t.Fatal("loading a missing key should error out")
	}
}

func TestBitSetRedisCorruptValue(t *testing.T) {
	mr := initMockRedis(t)
	mr.Set("corrupt", "\x00garbage")
	if _, err := NewCompressedBitSetFromRedisKey(context.Background(), "corrupt"); err == nil {
		t.Fatal("loading a corrupt value should error out")
	}
}

func TestBitSetRedisLogging(t *testing.T) {
	initMockRedis(t)
	var buff bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buff, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	bitSet := newTestBitSet(t, 10)
	if err := bitSet.SaveRedis(context.Background(), "logged", RedisStoreOptions{}); err != nil {
		t.Fatalf("error should be nil, got %v", err)
	}
	if !strings.Contains(buff.String(), "bitset saved") || !strings.Contains(buff.String(), "key=logged") {
		t.Fatalf("save should be logged at debug level, got %q", buff.String())
	}
}
