// Package slackbot 实现公告机器人的 Slack 接入层。
// 使用 slack-go/slack 的 Socket Mode（WebSocket）接收指令与交互事件，
// 业务流水线全部委托给 pkg/announce。
package slackbot

import (
	"context"
	"fmt"
	"strings"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-announce-bot/pkg/announce"
	"github.com/nerdneilsfield/go-announce-bot/pkg/glossary"
)

// Bot 公告机器人
type Bot struct {
	client   *slack.Client
	socket   *socketmode.Client
	service  *announce.Service
	glossary *glossary.Store
	logger   *zap.Logger
}

// Config Slack 接入配置
type Config struct {
	BotToken string // xoxb-...
	AppToken string // xapp-...（Socket Mode 必需）
	Debug    bool
}

// New 创建公告机器人
func New(cfg Config, service *announce.Service, store *glossary.Store, logger *zap.Logger) (*Bot, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("slack bot token is required")
	}
	if cfg.AppToken == "" {
		return nil, fmt.Errorf("slack app token is required for Socket Mode")
	}
	if !strings.HasPrefix(cfg.AppToken, "xapp-") {
		return nil, fmt.Errorf("slack app token must start with xapp-")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := slack.New(
		cfg.BotToken,
		slack.OptionDebug(cfg.Debug),
		slack.OptionAppLevelToken(cfg.AppToken),
	)

	socketClient := socketmode.New(
		client,
		socketmode.OptionDebug(cfg.Debug),
	)

	return &Bot{
		client:   client,
		socket:   socketClient,
		service:  service,
		glossary: store,
		logger:   logger,
	}, nil
}

// Run 启动事件循环，阻塞直到上下文取消
func (b *Bot) Run(ctx context.Context) error {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-b.socket.Events:
				if !ok {
					return
				}
				b.handleEvent(ctx, evt)
			}
		}
	}()

	return b.socket.RunContext(ctx)
}

func (b *Bot) handleEvent(ctx context.Context, evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeConnecting:
		b.logger.Info("正在连接 Slack Socket Mode")

	case socketmode.EventTypeConnected:
		b.logger.Info("已连接 Slack Socket Mode")

	case socketmode.EventTypeConnectionError:
		b.logger.Warn("Slack 连接错误", zap.Any("data", evt.Data))

	case socketmode.EventTypeSlashCommand:
		cmd, ok := evt.Data.(slack.SlashCommand)
		if !ok {
			return
		}
		b.socket.Ack(*evt.Request)
		b.handleSlashCommand(ctx, cmd)

	case socketmode.EventTypeInteractive:
		callback, ok := evt.Data.(slack.InteractionCallback)
		if !ok {
			return
		}
		b.socket.Ack(*evt.Request)
		b.handleInteraction(ctx, callback)
	}
}

func (b *Bot) handleSlashCommand(ctx context.Context, cmd slack.SlashCommand) {
	switch cmd.Command {
	case "/announce":
		b.handleAnnounceCommand(cmd)
	case "/glossary":
		b.handleGlossaryCommand(cmd)
	default:
		b.postEphemeral(cmd.ChannelID, cmd.UserID,
			fmt.Sprintf("未知指令 / Unknown command: %s", cmd.Command))
	}
}

func (b *Bot) handleInteraction(ctx context.Context, callback slack.InteractionCallback) {
	if callback.Type == slack.InteractionTypeViewSubmission {
		b.handleViewSubmission(ctx, callback)
		return
	}

	for _, action := range callback.ActionCallback.BlockActions {
		switch {
		case strings.HasPrefix(action.ActionID, "select_"):
			b.handleTypeSelected(callback, action)
		case strings.HasPrefix(action.ActionID, "copy_"):
			b.handleCopy(callback, action)
		case action.ActionID == "edit_chinese":
			b.handleEditChinese(callback, action)
		case action.ActionID == "regenerate":
			b.handleRegenerate(callback, action)
		case action.ActionID == "retry":
			b.handleRetry(callback)
		case action.ActionID == "done":
			b.handleDone(callback)
		}
	}
}

func (b *Bot) postEphemeral(channelID, userID, text string) {
	_, err := b.client.PostEphemeral(channelID, userID,
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		b.logger.Warn("发送临时消息失败", zap.Error(err))
	}
}
