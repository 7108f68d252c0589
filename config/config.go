package config

import (
	"log"

	"constructhub/pkg/config"
)

// WorkerConfig 异步任务配置
type WorkerConfig struct {
	// 去重 key 保留时间（秒）
	DedupTTLSeconds int `yaml:"dedup_ttl_seconds"`
	// Outbox 最大重试次数
	OutboxMaxRetries int `yaml:"outbox_max_retries"`
	// Outbox 扫描间隔（毫秒）
	OutboxIntervalMS int `yaml:"outbox_interval_ms"`
	// snowflake 节点号，每个进程唯一
	NodeID int64 `yaml:"node_id"`
	// worker 的 /metrics 监听地址，空则不启动
	MetricsAddr string `yaml:"metrics_addr"`
}

type Config struct {
	DB       config.DBConfig       `yaml:"db"`
	MQ       config.MQConfig       `yaml:"mq"`
	Redis    config.RedisConfig    `yaml:"redis"`
	JWT      config.JWTConfig      `yaml:"jwt"`
	Server   config.ServerConfig   `yaml:"server"`
	Delivery config.DeliveryConfig `yaml:"delivery"`
	OTel     config.OTelConfig     `yaml:"otel"`
	Worker   WorkerConfig          `yaml:"worker"`
}

func Load() *Config {
	// 使用统一配置中心
	env := config.GetConfigEnv()
	configDir := config.GetEnv("CONFIG_DIR", "config")

	cfgMap, err := config.LoadConfig(env, configDir)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var cfg Config
	if err := config.Decode(cfgMap, &cfg); err != nil {
		log.Fatalf("failed to decode config: %v", err)
	}

	// 环境变量覆盖（优先级最高）
	config.OverrideDBFromEnv(&cfg.DB)
	config.OverrideMQFromEnv(&cfg.MQ)
	config.OverrideRedisFromEnv(&cfg.Redis)
	config.OverrideJWTFromEnv(&cfg.JWT)
	config.OverrideServerFromEnv(&cfg.Server)
	config.OverrideDeliveryFromEnv(&cfg.Delivery)
	config.OverrideOTelFromEnv(&cfg.OTel)

	if cfg.JWT.Secret == "" {
		log.Fatalf("jwt.secret is required")
	}
	return &cfg
}
