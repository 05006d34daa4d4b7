package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/chinkunlim/Project-Synapse/config"
	apperrors "github.com/chinkunlim/Project-Synapse/pkg/errors"
)

// Client Redis 客户端封装
// 用于日历同步互斥锁、最近同步时间戳与接口限流；不可用时调用方降级
type Client struct {
	rdb    goredis.UniversalClient
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── 分布式锁 ──

const lockPrefix = "synapse:lock:"

// 仅当值匹配时删除，避免释放其他实例的锁
var unlockScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock 已持有的锁
type Lock struct {
	client *Client
	key    string
	token  string
}

// AcquireLock 尝试获取锁，已被持有时返回 ErrLockNotAcquired
func (c *Client) AcquireLock(ctx context.Context, name string, ttl time.Duration) (*Lock, error) {
	token := uuid.NewString()
	ok, err := c.rdb.SetNX(ctx, lockPrefix+name, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("获取锁失败: %w", err)
	}
	if !ok {
		return nil, apperrors.ErrLockNotAcquired
	}
	return &Lock{client: c, key: lockPrefix + name, token: token}, nil
}

// Release 释放锁；锁已过期或被他人持有时静默返回
func (l *Lock) Release(ctx context.Context) error {
	if err := unlockScript.Run(ctx, l.client.rdb, []string{l.key}, l.token).Err(); err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("释放锁失败: %w", err)
	}
	return nil
}

// WithLock 持有锁期间执行 fn，结束后释放
func (c *Client) WithLock(ctx context.Context, name string, ttl time.Duration, fn func(ctx context.Context) error) error {
	lock, err := c.AcquireLock(ctx, name, ttl)
	if err != nil {
		return err
	}
	defer func() {
		// 使用独立 context，请求取消后仍能释放
		releaseCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := lock.Release(releaseCtx); err != nil {
			c.logger.Warn("释放锁失败", zap.String("name", name), zap.Error(err))
		}
	}()
	return fn(ctx)
}

// ── 最近同步时间 ──

const lastSyncPrefix = "synapse:last_sync:"

// SetLastSync 记录某项任务的最近完成时间
func (c *Client) SetLastSync(ctx context.Context, name string, at time.Time) error {
	return c.rdb.Set(ctx, lastSyncPrefix+name, at.Unix(), 0).Err()
}

// LastSync 查询最近完成时间；从未记录时 ok=false
func (c *Client) LastSync(ctx context.Context, name string) (time.Time, bool, error) {
	v, err := c.rdb.Get(ctx, lastSyncPrefix+name).Result()
	if errors.Is(err, goredis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	sec, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("时间戳格式无效: %w", err)
	}
	return time.Unix(sec, 0), true, nil
}

// ── 限流 ──

// CheckRateLimit 滑动窗口限流：窗口内请求数不超过 limit 时放行
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	member := strconv.FormatInt(now.UnixNano(), 10) + ":" + uuid.NewString()

	pipe := c.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(now.Add(-window).UnixNano(), 10))
	pipe.ZAdd(ctx, key, goredis.Z{Score: float64(now.UnixNano()), Member: member})
	count := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return count.Val() <= int64(limit), nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
