package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Automation pipeline
	Webhook     WebhookConfig
	Scheduler   SchedulerConfig
	GitHub      GitHubConfig
	PullRequest PullRequestConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// WebhookConfig controls the signature-verifying ingress.
type WebhookConfig struct {
	Enabled            bool
	Secret             string
	AllowedIPs         []string
	RateLimitPerMin    int
	MaxBodyBytes       int64
	TimestampTolerance time.Duration // zero disables replay-window checking
}

// SchedulerConfig controls the bounded worker scheduler.
type SchedulerConfig struct {
	Workers        int
	MaxRetries     int
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration
	IdleInterval   time.Duration
	JobTimeout     time.Duration // advisory only, overruns are logged
}

// GitHubConfig holds credentials for the SCM side-effect boundary.
type GitHubConfig struct {
	Token   string
	BaseURL string // empty means api.github.com
}

// PullRequestConfig controls the PR-creating side-effect executor.
type PullRequestConfig struct {
	HourlyLimit          int
	BranchPrefix         string
	ConflictAvoidance    bool
	AutoResolveConflicts bool
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Webhook ingress
	cfg.Webhook.Enabled = viper.GetBool("webhook.enabled")
	cfg.Webhook.Secret = viper.GetString("webhook.secret")
	if webhookSecret := viper.GetString("webhook_secret"); webhookSecret != "" {
		cfg.Webhook.Secret = webhookSecret
	}
	cfg.Webhook.RateLimitPerMin = viper.GetInt("webhook.rate_limit_per_min")
	cfg.Webhook.MaxBodyBytes = viper.GetInt64("webhook.max_body_bytes")
	cfg.Webhook.TimestampTolerance = viper.GetDuration("webhook.timestamp_tolerance")

	// Split allowed IPs since viper might not parse array seamlessly from env
	var ips []string
	if rawIps := viper.GetString("webhook.allowed_ips"); rawIps != "" {
		for _, ip := range strings.Split(rawIps, ",") {
			ip = strings.TrimSpace(ip)
			if ip != "" {
				ips = append(ips, ip)
			}
		}
	}
	cfg.Webhook.AllowedIPs = ips

	// Scheduler
	cfg.Scheduler.Workers = viper.GetInt("scheduler.workers")
	cfg.Scheduler.MaxRetries = viper.GetInt("scheduler.max_retries")
	cfg.Scheduler.RetryBaseDelay = viper.GetDuration("scheduler.retry_base_delay")
	cfg.Scheduler.RetryMaxDelay = viper.GetDuration("scheduler.retry_max_delay")
	cfg.Scheduler.IdleInterval = viper.GetDuration("scheduler.idle_interval")
	cfg.Scheduler.JobTimeout = viper.GetDuration("scheduler.job_timeout")

	// GitHub
	cfg.GitHub.Token = viper.GetString("github.token")
	if ghToken := viper.GetString("github_token"); ghToken != "" {
		cfg.GitHub.Token = ghToken
	}
	cfg.GitHub.BaseURL = viper.GetString("github.base_url")

	// Pull requests
	cfg.PullRequest.HourlyLimit = viper.GetInt("pull_request.hourly_limit")
	cfg.PullRequest.BranchPrefix = viper.GetString("pull_request.branch_prefix")
	cfg.PullRequest.ConflictAvoidance = viper.GetBool("pull_request.conflict_avoidance")
	cfg.PullRequest.AutoResolveConflicts = viper.GetBool("pull_request.auto_resolve_conflicts")

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	viper.SetDefault("webhook.enabled", true)
	viper.SetDefault("webhook.rate_limit_per_min", 60)
	viper.SetDefault("webhook.max_body_bytes", 1<<20) // 1 MiB
	viper.SetDefault("webhook.timestamp_tolerance", "5m")

	viper.SetDefault("scheduler.workers", 3)
	viper.SetDefault("scheduler.max_retries", 3)
	viper.SetDefault("scheduler.retry_base_delay", "1s")
	viper.SetDefault("scheduler.retry_max_delay", "5m")
	viper.SetDefault("scheduler.idle_interval", "5s")
	viper.SetDefault("scheduler.job_timeout", "2m")

	viper.SetDefault("pull_request.hourly_limit", 10)
	viper.SetDefault("pull_request.branch_prefix", "automation")
	viper.SetDefault("pull_request.conflict_avoidance", true)
	viper.SetDefault("pull_request.auto_resolve_conflicts", false)
}
