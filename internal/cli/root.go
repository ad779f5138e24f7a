// Package cli 提供公告机器人的命令行入口。
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-announce-bot/internal/config"
	"github.com/nerdneilsfield/go-announce-bot/internal/logger"
	"github.com/nerdneilsfield/go-announce-bot/internal/slackbot"
	"github.com/nerdneilsfield/go-announce-bot/internal/web"
	"github.com/nerdneilsfield/go-announce-bot/pkg/announce"
	"github.com/nerdneilsfield/go-announce-bot/pkg/glossary"
	"github.com/nerdneilsfield/go-announce-bot/pkg/providers"
	"github.com/nerdneilsfield/go-announce-bot/pkg/providers/openai"
	"github.com/nerdneilsfield/go-announce-bot/pkg/providers/zhipu"
)

var (
	// 命令行标志变量
	cfgFile   string
	debugMode bool
	listTypes bool
)

// NewRootCommand 创建根命令
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "announcer",
		Short: "游戏公告生成机器人，通过 Slack 生成中英双语公告",
		Long: `游戏公告生成机器人通过 Slack 斜杠指令与模态表单收集公告信息，
调用大模型生成中英双语公告文案，并支持在结果上编辑中文后自动重新翻译英文。

支持的生成后端:
  - zhipu: 智谱 GLM 系列模型（默认）
  - openai: OpenAI 兼容接口`,
		Version:      fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listTypes {
				printAnnouncementTypes()
				return nil
			}
			return runServe()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "配置文件路径（默认搜索 $HOME/.announcer.yaml）")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "启用调试日志")
	rootCmd.Flags().BoolVar(&listTypes, "list-types", false, "列出支持的公告类型")

	rootCmd.AddCommand(NewGlossaryCommand())

	return rootCmd
}

// printAnnouncementTypes 彩色打印支持的公告类型
func printAnnouncementTypes() {
	title := color.New(color.FgCyan, color.Bold)
	name := color.New(color.FgGreen)

	_, _ = title.Println("支持的公告类型 / Supported announcement types:")
	for _, typ := range announce.AllTypes() {
		_, _ = name.Printf("  %-26s", string(typ))
		fmt.Println(announce.TypeLabel(typ))
	}
}

// runServe 启动机器人与 HTTP 服务，阻塞直到收到退出信号
func runServe() error {
	log := logger.NewLogger(debugMode)
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Debug {
		debugMode = true
	}

	provider, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	store := glossary.NewStore(cfg.GlossaryPath, log)
	prompts := announce.NewPromptBuilder(cfg.GameName, cfg.ServerTimezoneLabel)
	sessions := announce.NewSessionStore(
		time.Duration(cfg.PendingTTLMinutes)*time.Minute, cfg.PendingCap)
	service := announce.NewService(provider, store, prompts, sessions, log,
		time.Duration(cfg.RequestTimeout)*time.Second)

	bot, err := slackbot.New(slackbot.Config{
		BotToken: cfg.Slack.BotToken,
		AppToken: cfg.Slack.AppToken,
		Debug:    cfg.Debug,
	}, service, store, log)
	if err != nil {
		return fmt.Errorf("failed to create slack bot: %w", err)
	}

	server := web.NewServer(cfg.ListenAddr, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		errCh <- server.Run(ctx)
	}()
	go func() {
		errCh <- bot.Run(ctx)
	}()

	log.Info("公告机器人已启动",
		zap.String("provider", cfg.Provider),
		zap.String("listen_addr", cfg.ListenAddr),
		zap.Int("glossary_terms", store.Len()))

	select {
	case err := <-errCh:
		stop()
		if err != nil && ctx.Err() == nil {
			log.Error("服务异常退出", zap.Error(err))
			return err
		}
	case <-ctx.Done():
		log.Info("收到退出信号，正在关闭")
	}

	return nil
}

// buildProvider 按配置构建生成后端
func buildProvider(cfg *config.Config) (providers.Generator, error) {
	switch cfg.Provider {
	case "zhipu":
		zhipuCfg := zhipu.DefaultConfig()
		zhipuCfg.APIKey = cfg.Zhipu.APIKey
		zhipuCfg.Timeout = time.Duration(cfg.RequestTimeout) * time.Second
		if cfg.Zhipu.Model != "" {
			zhipuCfg.Model = cfg.Zhipu.Model
		}
		if cfg.Zhipu.BaseURL != "" {
			zhipuCfg.APIEndpoint = cfg.Zhipu.BaseURL
		}
		return zhipu.New(zhipuCfg), nil
	case "openai":
		openaiCfg := openai.DefaultConfig()
		openaiCfg.APIKey = cfg.OpenAI.APIKey
		openaiCfg.Timeout = time.Duration(cfg.RequestTimeout) * time.Second
		if cfg.OpenAI.Model != "" {
			openaiCfg.Model = cfg.OpenAI.Model
		}
		if cfg.OpenAI.BaseURL != "" {
			openaiCfg.APIEndpoint = cfg.OpenAI.BaseURL
		}
		return openai.New(openaiCfg), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}
