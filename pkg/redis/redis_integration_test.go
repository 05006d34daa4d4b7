//go:build integration

package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/chinkunlim/Project-Synapse/config"
	apperrors "github.com/chinkunlim/Project-Synapse/pkg/errors"
)

func setupClient(t *testing.T) *Client {
	t.Helper()
	addr := os.Getenv("SYNAPSE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("未设置 SYNAPSE_TEST_REDIS_ADDR，跳过 Redis 集成测试")
	}
	c, err := NewClient(&config.RedisConfig{Addr: addr, DB: 15}, zap.NewNop())
	if err != nil {
		t.Fatalf("连接 Redis 失败: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestLock_Exclusive(t *testing.T) {
	c := setupClient(t)
	ctx := context.Background()
	name := "test-" + time.Now().Format("150405.000000")

	lock, err := c.AcquireLock(ctx, name, 5*time.Second)
	if err != nil {
		t.Fatalf("首次获取锁失败: %v", err)
	}
	if _, err := c.AcquireLock(ctx, name, 5*time.Second); !errors.Is(err, apperrors.ErrLockNotAcquired) {
		t.Errorf("期望 ErrLockNotAcquired，实际 %v", err)
	}
	if err := lock.Release(ctx); err != nil {
		t.Fatalf("释放锁失败: %v", err)
	}
	again, err := c.AcquireLock(ctx, name, 5*time.Second)
	if err != nil {
		t.Fatalf("释放后应能重新获取: %v", err)
	}
	_ = again.Release(ctx)
}

func TestLastSync(t *testing.T) {
	c := setupClient(t)
	ctx := context.Background()
	name := "test-" + time.Now().Format("150405.000000")

	if _, ok, err := c.LastSync(ctx, name); err != nil || ok {
		t.Fatalf("未记录时应返回 ok=false，实际 ok=%v err=%v", ok, err)
	}
	now := time.Unix(time.Now().Unix(), 0)
	if err := c.SetLastSync(ctx, name, now); err != nil {
		t.Fatalf("写入失败: %v", err)
	}
	got, ok, err := c.LastSync(ctx, name)
	if err != nil || !ok || !got.Equal(now) {
		t.Errorf("期望 %v，实际 %v ok=%v err=%v", now, got, ok, err)
	}
}

func TestCheckRateLimit(t *testing.T) {
	c := setupClient(t)
	ctx := context.Background()
	key := "rate_limit:test:" + time.Now().Format("150405.000000")

	for i := 0; i < 3; i++ {
		ok, err := c.CheckRateLimit(ctx, key, 3, time.Minute)
		if err != nil || !ok {
			t.Fatalf("第 %d 次请求应放行，ok=%v err=%v", i+1, ok, err)
		}
	}
	if ok, _ := c.CheckRateLimit(ctx, key, 3, time.Minute); ok {
		t.Error("第 4 次请求应被限流")
	}
}
