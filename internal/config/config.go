package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/seox/internal/logger"
	"gopkg.in/yaml.v3"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr        string `yaml:"listen_addr"`
	Port              string `yaml:"port"`
	DatabasePath      string `yaml:"database_path"`
	SessionSecret     string `yaml:"session_secret"`
	GinMode           string `yaml:"gin_mode"`
	SuperRootUserName string `yaml:"super_root_user_name"`
	SuperRootPassword string `yaml:"super_root_password"`
	SiteBaseURL       string `yaml:"site_base_url"`
}

// Load 读取应用配置：先套用可选的 YAML 配置文件（CONFIG_PATH 指定），
// 再以环境变量覆盖，缺失项回退到安全的默认值。
func Load() AppConfig {
	var cfg AppConfig

	if path := strings.TrimSpace(os.Getenv("CONFIG_PATH")); path != "" {
		fileCfg, err := loadFile(path)
		if err != nil {
			// 配置文件坏了不致命，但运维必须能看到
			logger.Warn("ignoring config file", "path", path, "error", err.Error())
		} else {
			cfg = fileCfg
		}
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	return cfg
}

func loadFile(path string) (AppConfig, error) {
	var cfg AppConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

func applyEnv(cfg *AppConfig) {
	overlay := func(dst *string, key string) {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			*dst = value
		}
	}

	overlay(&cfg.Port, "PORT")
	overlay(&cfg.ListenAddr, "LISTEN_ADDR")
	overlay(&cfg.DatabasePath, "DATABASE_PATH")
	overlay(&cfg.SessionSecret, "SESSION_SECRET")
	overlay(&cfg.GinMode, "GIN_MODE")
	overlay(&cfg.SuperRootUserName, "SUPER_ROOT_USER_NAME")
	overlay(&cfg.SuperRootPassword, "SUPER_ROOT_PASSWORD")
	overlay(&cfg.SiteBaseURL, "SITE_BASE_URL")
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = fmt.Sprintf(":%s", cfg.Port)
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "seox.db"
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = "seox-dev-secret"
	}
	if cfg.GinMode == "" {
		cfg.GinMode = "release"
	}
	if cfg.SiteBaseURL == "" {
		cfg.SiteBaseURL = "https://app.seo-x.dev"
	}
}
