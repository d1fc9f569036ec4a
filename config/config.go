package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Seed    SeedConfig    `mapstructure:"seed"`
	Log     LogConfig     `mapstructure:"log"`
}

// StorageConfig 本地 JSON 存储配置
type StorageConfig struct {
	Dir string `mapstructure:"dir"`
}

// AuthConfig 账号与重置码配置
type AuthConfig struct {
	ResetCodeTTL      time.Duration `mapstructure:"reset_code_ttl"`
	MinPasswordLength int           `mapstructure:"min_password_length"`
}

// SeedConfig 演示数据开关
type SeedConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("storage.dir", "./data")

	v.SetDefault("auth.reset_code_ttl", "10m")
	v.SetDefault("auth.min_password_length", 6)

	v.SetDefault("seed.enabled", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("EXAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// ── 关键配置校验 ──
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Storage.Dir == "" {
		return fmt.Errorf("配置校验失败: storage.dir 不能为空")
	}
	if c.Auth.ResetCodeTTL <= 0 {
		return fmt.Errorf("配置校验失败: auth.reset_code_ttl 必须为正")
	}
	if c.Auth.MinPasswordLength < 1 {
		return fmt.Errorf("配置校验失败: auth.min_password_length 必须为正")
	}
	return nil
}
