package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Comment  CommentConfig  `mapstructure:"comment"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// CommentConfig 评论子系统的全部可调参数。
// 原先散落的常量统一收到配置里，构造服务时显式传入。
type CommentConfig struct {
	DefaultPageSize    int    `mapstructure:"default_page_size"`    // 根评论默认每页数量
	MaxRootFanout      int    `mapstructure:"max_root_fanout"`      // 单页用于回复查询的根评论上限
	ReplyPreviewLimit  int    `mapstructure:"reply_preview_limit"`  // 每个根下展示的回复上限（仅展示截断）
	IDFilterLimit      int    `mapstructure:"id_filter_limit"`      // IN 查询的 ID 批次上限
	ProfileChunkSize   int    `mapstructure:"profile_chunk_size"`   // 作者信息批量查询的分块大小
	TxnAttempts        int    `mapstructure:"txn_attempts"`         // 事务冲突重试次数
	DeletedPlaceholder string `mapstructure:"deleted_placeholder"`  // 软删除后的占位内容
}

type NotifyConfig struct {
	Queue   string `mapstructure:"queue"`   // 通知队列名
	Channel string `mapstructure:"channel"` // 通知广播频道
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

func Load(configPath string) (*Config, error) {
	// 优先尝试读取 config.local.yaml（包含真实密钥，不提交到git）
	dir := filepath.Dir(configPath)
	localConfigPath := filepath.Join(dir, "config.local.yaml")

	// 检查 config.local.yaml 是否存在
	if _, err := os.Stat(localConfigPath); err == nil {
		configPath = localConfigPath
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	setDefaults()

	// 环境变量覆盖
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	// 默认页大小不超过根扇出上限，缺省请求不触发收紧告警
	viper.SetDefault("comment.default_page_size", 10)
	viper.SetDefault("comment.max_root_fanout", 10)
	viper.SetDefault("comment.reply_preview_limit", 50)
	viper.SetDefault("comment.id_filter_limit", 30)
	viper.SetDefault("comment.profile_chunk_size", 50)
	viper.SetDefault("comment.txn_attempts", 3)
	viper.SetDefault("comment.deleted_placeholder", "该评论已删除")
	viper.SetDefault("notify.queue", "notify_queue")
	viper.SetDefault("notify.channel", "notify_events")
}

// DefaultCommentConfig 测试与缺省场景使用的评论配置
func DefaultCommentConfig() CommentConfig {
	return CommentConfig{
		DefaultPageSize:    10,
		MaxRootFanout:      10,
		ReplyPreviewLimit:  50,
		IDFilterLimit:      30,
		ProfileChunkSize:   50,
		TxnAttempts:        3,
		DeletedPlaceholder: "该评论已删除",
	}
}
