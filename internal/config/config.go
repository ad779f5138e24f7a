package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// SlackConfig Slack 凭证配置
type SlackConfig struct {
	BotToken string `mapstructure:"bot_token"` // xoxb-...
	AppToken string `mapstructure:"app_token"` // xapp-...（Socket Mode）
}

// ZhipuConfig 智谱 GLM 配置
type ZhipuConfig struct {
	APIKey  string `mapstructure:"api_key"` // 复合密钥，格式 id.secret
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// OpenAIConfig OpenAI 兼容后端配置
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// Config 保存公告机器人的所有配置
type Config struct {
	Provider string       `mapstructure:"provider"` // 生成后端: zhipu | openai
	Slack    SlackConfig  `mapstructure:"slack"`
	Zhipu    ZhipuConfig  `mapstructure:"zhipu"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`

	GameName            string `mapstructure:"game_name"`
	ServerTimezoneLabel string `mapstructure:"server_timezone_label"`
	GlossaryPath        string `mapstructure:"glossary_path"`

	RequestTimeout    int    `mapstructure:"request_timeout"`     // 生成请求超时（秒）
	PendingTTLMinutes int    `mapstructure:"pending_ttl_minutes"` // 会话保留时长（分钟）
	PendingCap        int    `mapstructure:"pending_cap"`         // 会话条目上限
	ListenAddr        string `mapstructure:"listen_addr"`         // 落地页/健康检查监听地址
	Debug             bool   `mapstructure:"debug"`
}

// LoadConfig 从文件加载配置。configPath 为空时在 $HOME 与当前目录
// 搜索 .announcer.yaml；没有配置文件时使用默认值 + 环境变量
// （前缀 ANNOUNCER_，层级用下划线分隔，如 ANNOUNCER_SLACK_BOT_TOKEN）。
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".announcer")
		v.SetConfigType("yaml")
	}

	setDefaults(v)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", "zhipu")
	v.SetDefault("zhipu.model", "glm-4-flash")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("game_name", "Teon: Revelation")
	v.SetDefault("server_timezone_label", "(UTC+8)")
	v.SetDefault("glossary_path", "data/glossary.json")
	v.SetDefault("request_timeout", 60)
	v.SetDefault("pending_ttl_minutes", 60)
	v.SetDefault("pending_cap", 256)
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("debug", false)
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("ANNOUNCER")
	v.AutomaticEnv()

	// 嵌套键显式绑定，保证 ANNOUNCER_SLACK_BOT_TOKEN 这类变量生效
	_ = v.BindEnv("slack.bot_token", "ANNOUNCER_SLACK_BOT_TOKEN", "SLACK_BOT_TOKEN")
	_ = v.BindEnv("slack.app_token", "ANNOUNCER_SLACK_APP_TOKEN", "SLACK_APP_TOKEN")
	_ = v.BindEnv("zhipu.api_key", "ANNOUNCER_ZHIPU_API_KEY", "ZHIPU_API_KEY")
	_ = v.BindEnv("zhipu.model", "ANNOUNCER_ZHIPU_MODEL", "ZHIPU_MODEL")
	_ = v.BindEnv("openai.api_key", "ANNOUNCER_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("openai.model", "ANNOUNCER_OPENAI_MODEL")
	_ = v.BindEnv("openai.base_url", "ANNOUNCER_OPENAI_BASE_URL")
	_ = v.BindEnv("game_name", "ANNOUNCER_GAME_NAME", "GAME_NAME")
	_ = v.BindEnv("glossary_path", "ANNOUNCER_GLOSSARY_PATH")
	_ = v.BindEnv("listen_addr", "ANNOUNCER_LISTEN_ADDR")
}

func validate(config *Config) error {
	switch config.Provider {
	case "zhipu", "openai":
	default:
		return fmt.Errorf("unknown provider %q, expected zhipu or openai", config.Provider)
	}

	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 60
	}
	return nil
}
