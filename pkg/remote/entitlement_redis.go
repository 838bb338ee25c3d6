package remote

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/decker502/prizewheel/pkg/decision"
	"github.com/redis/go-redis/v9"
)

// PurchasesRestrictedField 权益哈希中表示"限制购买"的字段
const PurchasesRestrictedField = "purchases_restricted"

// DefaultEntitlementKeyPrefix 权益哈希键前缀，完整键为 <prefix><actorID>
const DefaultEntitlementKeyPrefix = "prizewheel:entitlement:"

// hashReader RedisEntitlementSource 使用的最小 Redis 接口
// redis.Client、redis.ClusterClient 和 redis.UniversalClient 都满足
type hashReader interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
}

// hashWriter 写入权益（管理工具和测试数据初始化使用）
type hashWriter interface {
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// RedisEntitlementSource 从 Redis 哈希读取用户购买权益
//
// 数据结构：HSET <prefix><actorID> purchases_restricted <bool>
// 键或字段不存在视为未限制。
type RedisEntitlementSource struct {
	client    hashReader
	keyPrefix string
	timeout   time.Duration
}

// NewRedisEntitlementSource 创建 Redis 权益来源
//
// 参数：
//   - client: Redis 客户端
//   - keyPrefix: 键前缀，空字符串时使用 DefaultEntitlementKeyPrefix
//   - timeout: 单次查询超时，<= 0 时不额外限制
func NewRedisEntitlementSource(client hashReader, keyPrefix string, timeout time.Duration) *RedisEntitlementSource {
	if keyPrefix == "" {
		keyPrefix = DefaultEntitlementKeyPrefix
	}
	return &RedisEntitlementSource{client: client, keyPrefix: keyPrefix, timeout: timeout}
}

// QueryPurchasePolicy 实现 decision.EntitlementSource
func (s *RedisEntitlementSource) QueryPurchasePolicy(ctx context.Context, actorID string) (*decision.PurchasePolicy, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	val, err := s.client.HGet(ctx, s.key(actorID), PurchasesRestrictedField).Result()
	if errors.Is(err, redis.Nil) {
		return &decision.PurchasePolicy{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query entitlement for %q: %w", actorID, err)
	}

	restricted, err := strconv.ParseBool(val)
	if err != nil {
		return nil, fmt.Errorf("entitlement for %q: invalid %s value %q: %w", actorID, PurchasesRestrictedField, val, err)
	}

	return &decision.PurchasePolicy{PurchasesRestricted: restricted}, nil
}

// SetPurchasesRestricted 写入用户的购买限制
func SetPurchasesRestricted(ctx context.Context, client hashWriter, keyPrefix, actorID string, restricted bool) error {
	if keyPrefix == "" {
		keyPrefix = DefaultEntitlementKeyPrefix
	}
	if err := client.HSet(ctx, keyPrefix+actorID, PurchasesRestrictedField, strconv.FormatBool(restricted)).Err(); err != nil {
		return fmt.Errorf("set entitlement for %q: %w", actorID, err)
	}
	return nil
}

func (s *RedisEntitlementSource) key(actorID string) string {
	return s.keyPrefix + actorID
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Addrs        []string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewRedisClient 创建 Redis 客户端并检查连接
//
// 返回：
//   - redis.UniversalClient: 客户端（单节点或集群由地址数量决定）
//   - func(): 关闭连接
//   - error: 地址为空或 PING 失败
func NewRedisClient(ctx context.Context, cfg RedisConfig) (redis.UniversalClient, func(), error) {
	if len(cfg.Addrs) == 0 {
		return nil, nil, errors.New("redis address is required")
	}

	rdb := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:           cfg.Addrs,
		Password:        cfg.Password,
		DB:              cfg.DB,
		DialTimeout:     cfg.DialTimeout,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		PoolSize:        10,
		MinIdleConns:    2,
		PoolTimeout:     5 * time.Second,
		ConnMaxIdleTime: 5 * time.Minute,
		MaxRetries:      2,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("ping redis %v: %w", cfg.Addrs, err)
	}

	cleanup := func() {
		log.Printf("[Redis] Closing connection")
		if err := rdb.Close(); err != nil {
			log.Printf("[Redis] Warning: close failed: %v", err)
		}
	}
	return rdb, cleanup, nil
}
