package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
)

// versionTTL mantém os contadores de versão bem além do TTL das
// entradas; um contador expirado só faz o próximo Set ser descartado.
const versionTTL = 24 * time.Hour

// setIfCurrent grava o campo apenas se as versões da data e do barbeiro
// ainda são as que o leitor viu no Get.
var setIfCurrent = redis.NewScript(`
local cur = redis.call('MGET', KEYS[1], KEYS[2])
if (cur[1] or '0') ~= ARGV[1] or (cur[2] or '0') ~= ARGV[2] then
	return 0
end
redis.call('HSET', KEYS[3], ARGV[3], ARGV[4])
redis.call('PEXPIRE', KEYS[3], ARGV[5])
return 1
`)

// RedisSlotCache guarda, por (barbeiro, data), um hash cujo campo é a
// variação da consulta (duração/passo). Invalidar é apagar o hash e
// incrementar a versão da data (ou do barbeiro).
type RedisSlotCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisSlotCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisSlotCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSlotCache{rdb: rdb, ttl: ttl, logger: logger}
}

// NewClient abre o cliente e confere a conexão com um PING.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

func Key(barberID uint, date string) string {
	return fmt.Sprintf("availability:%d:%s", barberID, date)
}

func dateVersionKey(barberID uint, date string) string {
	return fmt.Sprintf("availability-ver:%d:%s", barberID, date)
}

func barberVersionKey(barberID uint) string {
	return fmt.Sprintf("availability-ver:%d", barberID)
}

func stampOf(dateVer, barberVer string) string {
	return dateVer + "/" + barberVer
}

func versionOrZero(cmd *redis.StringCmd) string {
	v, err := cmd.Result()
	if err != nil {
		return "0"
	}
	return v
}

// ======================================================
// LEITURA
// ======================================================

func (c *RedisSlotCache) Get(ctx context.Context, barberID uint, date string, variant string) ([]domain.TimeSlot, string, bool) {
	key := Key(barberID, date)

	pipe := c.rdb.TxPipeline()
	dateVer := pipe.Get(ctx, dateVersionKey(barberID, date))
	barberVer := pipe.Get(ctx, barberVersionKey(barberID))
	entry := pipe.HGet(ctx, key, variant)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		c.logger.Warn("availability cache read failed", zap.String("key", key), zap.Error(err))
		// sem carimbo confiável: o Set seguinte será descartado
		return nil, "", false
	}

	stamp := stampOf(versionOrZero(dateVer), versionOrZero(barberVer))

	raw, err := entry.Bytes()
	if err != nil {
		return nil, stamp, false
	}

	var slots []domain.TimeSlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		c.logger.Warn("availability cache entry corrupted", zap.String("key", key), zap.Error(err))
		return nil, stamp, false
	}
	return slots, stamp, true
}

// ======================================================
// ESCRITA
// ======================================================

func (c *RedisSlotCache) Set(ctx context.Context, barberID uint, date string, variant string, stamp string, slots []domain.TimeSlot) {
	dateVer, barberVer, ok := strings.Cut(stamp, "/")
	if !ok || dateVer == "" || barberVer == "" {
		return
	}

	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}

	key := Key(barberID, date)
	stored, err := setIfCurrent.Run(ctx, c.rdb,
		[]string{dateVersionKey(barberID, date), barberVersionKey(barberID), key},
		dateVer, barberVer, variant, raw, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		c.logger.Warn("availability cache write failed", zap.String("key", key), zap.Error(err))
		return
	}
	if stored == 0 {
		c.logger.Debug("availability cache write skipped, schedule changed", zap.String("key", key))
	}
}

// ======================================================
// INVALIDAÇÃO
// ======================================================

func (c *RedisSlotCache) Invalidate(ctx context.Context, barberID uint, dates ...string) {
	if len(dates) == 0 {
		return
	}

	keys := make([]string, 0, len(dates))
	pipe := c.rdb.TxPipeline()
	for _, d := range dates {
		keys = append(keys, Key(barberID, d))
		pipe.Incr(ctx, dateVersionKey(barberID, d))
		pipe.Expire(ctx, dateVersionKey(barberID, d), versionTTL)
	}
	pipe.Del(ctx, keys...)
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Error("availability cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func (c *RedisSlotCache) InvalidateBarber(ctx context.Context, barberID uint) {
	pipe := c.rdb.TxPipeline()
	pipe.Incr(ctx, barberVersionKey(barberID))
	pipe.Expire(ctx, barberVersionKey(barberID), versionTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Error("availability cache version bump failed", zap.Uint("barber_id", barberID), zap.Error(err))
	}

	pattern := fmt.Sprintf("availability:%d:*", barberID)
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Error("availability cache scan failed", zap.String("pattern", pattern), zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Error("availability cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

var _ domain.SlotCache = (*RedisSlotCache)(nil)
