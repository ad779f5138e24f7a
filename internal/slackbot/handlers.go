package slackbot

import (
	"context"
	"fmt"
	"strings"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-announce-bot/pkg/announce"
)

// handleAnnounceCommand 打开公告类型选择模态
func (b *Bot) handleAnnounceCommand(cmd slack.SlashCommand) {
	modal := buildTypeSelectionModal(cmd.ChannelID)
	if _, err := b.client.OpenView(cmd.TriggerID, modal); err != nil {
		b.logger.Error("打开类型选择模态失败", zap.Error(err))
		b.postError(cmd.ChannelID, err)
	}
}

// handleGlossaryCommand 术语表维护指令：/glossary [reload|stats]
func (b *Bot) handleGlossaryCommand(cmd slack.SlashCommand) {
	if b.glossary == nil {
		b.postEphemeral(cmd.ChannelID, cmd.UserID, "术语表未配置 / Glossary not configured")
		return
	}

	switch strings.TrimSpace(cmd.Text) {
	case "reload":
		terms := b.glossary.Reload()
		b.postEphemeral(cmd.ChannelID, cmd.UserID,
			fmt.Sprintf("✅ 术语表已重载，共 %d 条 / Glossary reloaded, %d terms", len(terms), len(terms)))
	default:
		b.postEphemeral(cmd.ChannelID, cmd.UserID,
			fmt.Sprintf("📖 术语表当前 %d 条 / Glossary has %d terms（`/glossary reload` 重新加载）", b.glossary.Len(), b.glossary.Len()))
	}
}

// handleTypeSelected 类型按钮点击后，把选择模态原地替换为对应表单
func (b *Bot) handleTypeSelected(callback slack.InteractionCallback, action *slack.BlockAction) {
	typ, err := announce.ParseType(action.Value)
	if err != nil {
		b.logger.Warn("未知的公告类型", zap.String("value", action.Value))
		return
	}

	meta := decodeMetadata(callback.View.PrivateMetadata)
	modal, err := buildFormModal(typ, meta.Channel)
	if err != nil {
		b.logger.Error("构建表单模态失败", zap.Error(err))
		return
	}

	if _, err := b.client.UpdateView(modal, "", "", callback.View.ID); err != nil {
		b.logger.Error("更新表单模态失败", zap.Error(err), zap.String("type", string(typ)))
	}
}

// handleViewSubmission 按回调 ID 分发表单提交
func (b *Bot) handleViewSubmission(ctx context.Context, callback slack.InteractionCallback) {
	switch callback.View.CallbackID {
	case callbackAnnouncementForm:
		b.handleFormSubmitted(ctx, callback)
	case callbackEditForm:
		b.handleEditSubmitted(ctx, callback)
	}
}

// handleFormSubmitted 表单提交后的生成流程：
// 先发等待消息，生成完成后删掉并发布结果。
func (b *Bot) handleFormSubmitted(ctx context.Context, callback slack.InteractionCallback) {
	meta := decodeMetadata(callback.View.PrivateMetadata)
	userID := callback.User.ID
	channelID := meta.Channel
	if channelID == "" {
		channelID = callback.Channel.ID
	}

	raw := collectViewValues(callback.View.State)

	loadingTS := b.postLoading(channelID, "正在生成公告，请稍候... / Generating announcement, please wait...")

	result, err := b.service.Generate(ctx, meta.Type, raw)

	b.deleteLoading(channelID, loadingTS)

	if err != nil {
		b.logger.Error("生成公告失败", zap.Error(err), zap.String("type", string(meta.Type)))
		b.postError(channelID, err)
		return
	}

	sessionKey := b.service.Remember(userID, meta.Type, result, announce.FormData(raw))
	b.postResult(channelID, meta.Type, result, sessionKey)
}

// handleEditSubmitted 中文编辑保存后重新翻译英文
func (b *Bot) handleEditSubmitted(ctx context.Context, callback slack.InteractionCallback) {
	meta := decodeMetadata(callback.View.PrivateMetadata)
	userID := callback.User.ID
	channelID := meta.Channel
	if channelID == "" {
		channelID = callback.Channel.ID
	}

	var original announce.Result
	var formData announce.FormData
	if form, ok := b.service.Sessions().Get(meta.SessionKey); ok {
		original = form.Result
		formData = form.FormData
	}

	values := collectViewValues(callback.View.State)
	cnTitle := values["cn_title"]
	if cnTitle == "" {
		cnTitle = original.CNTitle
	}
	cnContent := values["cn_content"]
	if cnContent == "" {
		cnContent = original.CNContent
	}

	loadingTS := b.postLoading(channelID, "正在重新翻译... / Re-translating...")

	result, err := b.service.ReTranslate(ctx, meta.Type, cnTitle, cnContent, original)

	b.deleteLoading(channelID, loadingTS)

	if err != nil {
		b.logger.Error("重新翻译失败", zap.Error(err), zap.String("type", string(meta.Type)))
		b.postError(channelID, err)
		return
	}

	sessionKey := b.service.Remember(userID, meta.Type, result, formData)
	b.postResult(channelID, meta.Type, result, sessionKey)
}

// handleCopy 把单个字段私信给点击者，方便整段复制
func (b *Bot) handleCopy(callback slack.InteractionCallback, action *slack.BlockAction) {
	sessionKey, part, ok := strings.Cut(action.Value, "|")
	if !ok {
		return
	}

	form, found := b.service.Sessions().Get(sessionKey)
	if !found {
		b.postEphemeral(callback.Channel.ID, callback.User.ID,
			"⚠️ 会话已过期，请重新生成 / Session expired, please regenerate")
		return
	}

	content := copyPartContent(form.Result, part)

	dm, _, _, err := b.client.OpenConversation(&slack.OpenConversationParameters{
		Users: []string{callback.User.ID},
	})
	if err != nil {
		b.logger.Warn("打开私信会话失败", zap.Error(err))
		return
	}

	_, _, err = b.client.PostMessage(dm.ID,
		slack.MsgOptionText(fmt.Sprintf("%s\n\n%s", copyPartLabels[part], content), false),
		slack.MsgOptionBlocks(buildCopyDM(part, content)...),
	)
	if err != nil {
		b.logger.Warn("发送复制私信失败", zap.Error(err))
		return
	}

	b.postEphemeral(callback.Channel.ID, callback.User.ID, "✅ 已发送到私信 / Sent to DM ✓")
}

// handleEditChinese 打开中文编辑模态
func (b *Bot) handleEditChinese(callback slack.InteractionCallback, action *slack.BlockAction) {
	sessionKey := action.Value

	form, found := b.service.Sessions().Get(sessionKey)
	if !found {
		b.postEphemeral(callback.Channel.ID, callback.User.ID,
			"⚠️ 会话已过期，请重新生成 / Session expired, please regenerate")
		return
	}

	modal := buildEditModal(form.Type, callback.Channel.ID, sessionKey, form.Result)
	if _, err := b.client.OpenView(callback.TriggerID, modal); err != nil {
		b.logger.Error("打开编辑模态失败", zap.Error(err))
		b.postEphemeral(callback.Channel.ID, callback.User.ID,
			fmt.Sprintf("❌ Error: %v", err))
	}
}

// handleRegenerate 重新打开同类型的表单
func (b *Bot) handleRegenerate(callback slack.InteractionCallback, action *slack.BlockAction) {
	typ, err := announce.ParseType(action.Value)
	if err != nil {
		b.logger.Warn("未知的公告类型", zap.String("value", action.Value))
		return
	}

	modal, err := buildFormModal(typ, callback.Channel.ID)
	if err != nil {
		b.logger.Error("构建表单模态失败", zap.Error(err))
		return
	}

	if _, err := b.client.OpenView(callback.TriggerID, modal); err != nil {
		b.logger.Error("打开表单模态失败", zap.Error(err))
	}
}

// handleRetry 失败后重新从类型选择开始
func (b *Bot) handleRetry(callback slack.InteractionCallback) {
	modal := buildTypeSelectionModal(callback.Channel.ID)
	if _, err := b.client.OpenView(callback.TriggerID, modal); err != nil {
		b.logger.Error("打开类型选择模态失败", zap.Error(err))
	}
}

// handleDone 结束提示
func (b *Bot) handleDone(callback slack.InteractionCallback) {
	b.postEphemeral(callback.Channel.ID, callback.User.ID,
		"✅ 完成！如需重新生成，请使用 /announce / Done! Use /announce to regenerate")
}

// collectViewValues 把模态状态拍平成 block ID → 值。
// 日期选择器取 selected_date，文本输入取 value。
func collectViewValues(state *slack.ViewState) map[string]string {
	values := make(map[string]string)
	if state == nil {
		return values
	}
	for blockID, actions := range state.Values {
		for _, action := range actions {
			if action.SelectedDate != "" {
				values[blockID] = action.SelectedDate
			} else {
				values[blockID] = action.Value
			}
		}
	}
	return values
}

func (b *Bot) postLoading(channelID, message string) string {
	_, ts, err := b.client.PostMessage(channelID,
		slack.MsgOptionText("⏳ "+message, false),
		slack.MsgOptionBlocks(buildLoadingBlocks(message)...),
	)
	if err != nil {
		b.logger.Warn("发送等待消息失败", zap.Error(err))
		return ""
	}
	return ts
}

func (b *Bot) deleteLoading(channelID, ts string) {
	if ts == "" {
		return
	}
	if _, _, err := b.client.DeleteMessage(channelID, ts); err != nil {
		b.logger.Warn("删除等待消息失败", zap.Error(err))
	}
}

func (b *Bot) postResult(channelID string, typ announce.Type, result announce.Result, sessionKey string) {
	_, _, err := b.client.PostMessage(channelID,
		slack.MsgOptionText(resultFallbackText(result), false),
		slack.MsgOptionBlocks(buildResultBlocks(result, typ, sessionKey)...),
	)
	if err != nil {
		b.logger.Error("发送结果消息失败", zap.Error(err))
	}
}

func (b *Bot) postError(channelID string, cause error) {
	_, _, err := b.client.PostMessage(channelID,
		slack.MsgOptionText(fmt.Sprintf("❌ 生成失败 / Error: %v", cause), false),
		slack.MsgOptionBlocks(buildErrorBlocks(cause)...),
	)
	if err != nil {
		b.logger.Error("发送失败消息失败", zap.Error(err))
	}
}
