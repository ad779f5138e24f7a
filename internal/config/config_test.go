package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	// 显式指定的文件不存在是硬错误
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "announcer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
provider: zhipu
game_name: "Test Game"
glossary_path: data/terms.toml
request_timeout: 30
slack:
  bot_token: xoxb-test
  app_token: xapp-test
zhipu:
  api_key: id.secret
  model: glm-4-plus
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "zhipu", cfg.Provider)
	assert.Equal(t, "Test Game", cfg.GameName)
	assert.Equal(t, "data/terms.toml", cfg.GlossaryPath)
	assert.Equal(t, 30, cfg.RequestTimeout)
	assert.Equal(t, "xoxb-test", cfg.Slack.BotToken)
	assert.Equal(t, "xapp-test", cfg.Slack.AppToken)
	assert.Equal(t, "id.secret", cfg.Zhipu.APIKey)
	assert.Equal(t, "glm-4-plus", cfg.Zhipu.Model)

	// 未配置项落到默认值
	assert.Equal(t, "(UTC+8)", cfg.ServerTimezoneLabel)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 60, cfg.PendingTTLMinutes)
	assert.Equal(t, 256, cfg.PendingCap)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "announcer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: zhipu\n"), 0o644))

	t.Setenv("ANNOUNCER_SLACK_BOT_TOKEN", "xoxb-from-env")
	t.Setenv("ZHIPU_API_KEY", "envid.envsecret")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "xoxb-from-env", cfg.Slack.BotToken)
	assert.Equal(t, "envid.envsecret", cfg.Zhipu.APIKey)
}

func TestLoadConfig_Validation(t *testing.T) {
	t.Run("unknown provider", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "announcer.yaml")
		require.NoError(t, os.WriteFile(path, []byte("provider: bedrock\n"), 0o644))

		_, err := LoadConfig(path)
		assert.ErrorContains(t, err, "unknown provider")
	})

	t.Run("non-positive timeout normalized", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "announcer.yaml")
		require.NoError(t, os.WriteFile(path, []byte("provider: openai\nrequest_timeout: -5\n"), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 60, cfg.RequestTimeout)
	})
}
