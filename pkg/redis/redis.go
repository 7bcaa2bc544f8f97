package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/BachaBajceps/HackNation2025-sub000/config"
)

// Client Redis 客户端封装
// 当前用于任务监控快照缓存；后续可扩展分布式锁等场景
type Client struct {
	rdb    *goredis.Client
	ttl    time.Duration
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
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, ttl: ttl, logger: logger}, nil
}

// ── 监控快照缓存 ──

const monitoringPrefix = "monitoring:task:"

// GetMonitoring 读取任务监控快照缓存（JSON 序列化后的字节）
// 缓存缺失时返回 (nil, nil)
func (c *Client) GetMonitoring(ctx context.Context, taskID string) ([]byte, error) {
	data, err := c.rdb.Get(ctx, monitoringPrefix+taskID).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// SetMonitoring 写入任务监控快照缓存，TTL 由配置决定
func (c *Client) SetMonitoring(ctx context.Context, taskID string, data []byte) error {
	return c.rdb.Set(ctx, monitoringPrefix+taskID, data, c.ttl).Err()
}

// InvalidateMonitoring 发送或任务变更后失效对应任务的监控快照
func (c *Client) InvalidateMonitoring(ctx context.Context, taskID string) error {
	return c.rdb.Del(ctx, monitoringPrefix+taskID).Err()
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
