package slackbot

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/nerdneilsfield/go-announce-bot/pkg/announce"
)

// 视图回调 ID 与按钮前缀
const (
	callbackAnnouncementForm = "announcement_form"
	callbackEditForm         = "edit_form"
)

// viewMetadata 通过 private_metadata 在模态视图间传递的上下文。
// 表单提交事件不带频道信息，频道 ID 必须随视图一路携带。
type viewMetadata struct {
	Type       announce.Type `json:"type,omitempty"`
	Channel    string        `json:"channel,omitempty"`
	SessionKey string        `json:"session_key,omitempty"`
}

func (m viewMetadata) encode() string {
	data, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(data)
}

func decodeMetadata(raw string) viewMetadata {
	var m viewMetadata
	if raw != "" {
		_ = json.Unmarshal([]byte(raw), &m)
	}
	return m
}

func plainText(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.PlainTextType, text, false, false)
}

func markdown(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.MarkdownType, text, false, false)
}

// typeButtonLabels 类型选择按钮上的短名称
var typeButtonLabels = map[announce.Type]string{
	announce.TypeMaintenancePreview:     "维护预告",
	announce.TypeKnownIssue:             "已知问题",
	announce.TypeDailyRestart:           "日常重启更新",
	announce.TypeTempMaintenancePreview: "临时维护预告",
	announce.TypeTempMaintenance:        "临时维护公告",
	announce.TypeResourceUpdate:         "资源更新",
	announce.TypeCompensation:           "补偿邮件",
}

// buildTypeSelectionModal 公告类型选择模态，按钮两两一行
func buildTypeSelectionModal(channelID string) slack.ModalViewRequest {
	typeButton := func(typ announce.Type, style slack.Style) *slack.ButtonBlockElement {
		actionID := "select_" + strings.ReplaceAll(string(typ), "-", "_")
		btn := slack.NewButtonBlockElement(actionID, string(typ), plainText(typeButtonLabels[typ]))
		if style != "" {
			btn = btn.WithStyle(style)
		}
		return btn
	}

	blocks := []slack.Block{
		slack.NewSectionBlock(markdown("请选择要生成的公告类型：\nPlease select the announcement type to generate:"), nil, nil),
		slack.NewSectionBlock(markdown("*公告类型 / Announcement Types*"), nil, nil),
		slack.NewActionBlock("type_row_1",
			typeButton(announce.TypeMaintenancePreview, slack.StylePrimary),
			typeButton(announce.TypeKnownIssue, ""),
		),
		slack.NewActionBlock("type_row_2",
			typeButton(announce.TypeDailyRestart, ""),
			typeButton(announce.TypeTempMaintenancePreview, ""),
		),
		slack.NewActionBlock("type_row_3",
			typeButton(announce.TypeTempMaintenance, slack.StyleDanger),
			typeButton(announce.TypeResourceUpdate, ""),
		),
		slack.NewActionBlock("type_row_4",
			typeButton(announce.TypeCompensation, slack.StylePrimary),
		),
	}

	return slack.ModalViewRequest{
		Type:            slack.VTModal,
		Title:           plainText("选择公告类型"),
		Close:           plainText("取消 / Cancel"),
		PrivateMetadata: viewMetadata{Channel: channelID}.encode(),
		Blocks:          slack.Blocks{BlockSet: blocks},
	}
}

// formField 表单模态中的一个输入块
type formField struct {
	blockID    string
	label      string
	hint       string
	actionID   string
	datepicker bool
	multiline  bool
	optional   bool
	placehold  string
}

func (f formField) toBlock() *slack.InputBlock {
	var element slack.BlockElement
	if f.datepicker {
		dp := slack.NewDatePickerBlockElement(f.actionID)
		if f.placehold != "" {
			dp.Placeholder = plainText(f.placehold)
		}
		element = dp
	} else {
		var placeholder *slack.TextBlockObject
		if f.placehold != "" {
			placeholder = plainText(f.placehold)
		}
		input := slack.NewPlainTextInputBlockElement(placeholder, f.actionID)
		input.Multiline = f.multiline
		element = input
	}

	var hint *slack.TextBlockObject
	if f.hint != "" {
		hint = plainText(f.hint)
	}

	block := slack.NewInputBlock(f.blockID, plainText(f.label), hint, element)
	block.Optional = f.optional
	return block
}

// formFields 每种公告类型的表单输入定义。块 ID 与动作 ID 必须和
// announce.ExtractFields 期望的原始键保持一致。
var formFields = map[announce.Type]struct {
	title  string
	fields []formField
}{
	announce.TypeMaintenancePreview: {
		title: "维护预告",
		fields: []formField{
			{blockID: "date", label: "维护日期 / Maintenance Date", actionID: "date_value", datepicker: true, placehold: "Select date"},
			{blockID: "start_time", label: "开始时间 / Start Time", actionID: "time_value", placehold: "e.g., 14:00", hint: "格式: 14:00 (24小时制) / Format: 14:00 (24-hour)"},
			{blockID: "duration", label: "预计时长 / Duration (hours)", actionID: "duration_value", placehold: "e.g., 4"},
			{blockID: "notes", label: "备注 / Notes (optional)", actionID: "notes_value", multiline: true, optional: true, placehold: "Optional additional information"},
		},
	},
	announce.TypeKnownIssue: {
		title: "已知问题公告",
		fields: []formField{
			{blockID: "issue_description", label: "问题描述 / Issue Description", actionID: "description_value", multiline: true, placehold: "Describe the issue..."},
			{blockID: "solution", label: "处理方案 / Solution", actionID: "solution_value", multiline: true, optional: true, placehold: "How will this be resolved?"},
		},
	},
	announce.TypeDailyRestart: {
		title: "日常重启更新",
		fields: []formField{
			{blockID: "restart_date", label: "重启日期 / Restart Date", actionID: "date_value", datepicker: true},
			{blockID: "restart_time", label: "重启时间 / Restart Time", actionID: "time_value", placehold: "e.g., 10:00"},
			{blockID: "fixes", label: "修复内容 / Fixed Issues", actionID: "fixes_value", multiline: true, placehold: "List the issues fixed..."},
		},
	},
	announce.TypeTempMaintenancePreview: {
		title: "临时维护预告",
		fields: []formField{
			{blockID: "reason", label: "问题原因 / Issue Reason", actionID: "reason_value", multiline: true, placehold: "What is the issue?"},
			{blockID: "maintenance_date", label: "维护日期 / Maintenance Date", actionID: "date_value", datepicker: true},
			{blockID: "start_time", label: "开始时间 / Start Time", actionID: "time_value", placehold: "e.g., 12:00"},
			{blockID: "duration", label: "预计时长 / Duration (hours)", actionID: "duration_value", placehold: "e.g., 2"},
		},
	},
	announce.TypeTempMaintenance: {
		title: "临时维护公告",
		fields: []formField{
			{blockID: "start_time", label: "开始时间 / Start Time", actionID: "start_time_value", placehold: "e.g., March 7, 2025, 12:00", hint: "Full datetime format / 完整日期时间格式"},
			{blockID: "end_time", label: "预计结束时间 / Estimated End Time", actionID: "end_time_value", placehold: "e.g., 14:30"},
			{blockID: "impact", label: "维护影响 / Impact", actionID: "impact_value", multiline: true, placehold: "e.g., Unable to log into the game"},
		},
	},
	announce.TypeResourceUpdate: {
		title: "资源更新公告",
		fields: []formField{
			{blockID: "update_date", label: "更新日期 / Update Date", actionID: "date_value", datepicker: true},
			{blockID: "update_time", label: "更新时间 / Update Time", actionID: "time_value", placehold: "e.g., 10:00"},
			{blockID: "resource_version", label: "资源号 / Resource Version", actionID: "version_value", placehold: "e.g., 1.2.3"},
			{blockID: "fixes", label: "修复内容 / Fixed Issues", actionID: "fixes_value", multiline: true, placehold: "List the issues fixed..."},
		},
	},
	announce.TypeCompensation: {
		title: "补偿邮件",
		fields: []formField{
			{blockID: "contents", label: "物品列表 / Package Contents", actionID: "contents_value", multiline: true, placehold: "List the compensation items..."},
		},
	},
}

// buildFormModal 构建指定类型的表单模态
func buildFormModal(typ announce.Type, channelID string) (slack.ModalViewRequest, error) {
	form, ok := formFields[typ]
	if !ok {
		return slack.ModalViewRequest{}, fmt.Errorf("unknown form type: %s", typ)
	}

	blocks := []slack.Block{
		slack.NewSectionBlock(markdown("*请填写以下信息 / Please fill in the following information:*"), nil, nil),
	}
	for _, field := range form.fields {
		blocks = append(blocks, field.toBlock())
	}
	blocks = append(blocks, slack.NewContextBlock("form_hint",
		markdown("💡 提示: 所有时间将自动添加【服务器时间】/(UTC+8)标识")))

	return slack.ModalViewRequest{
		Type:            slack.VTModal,
		Title:           plainText(form.title),
		Submit:          plainText("生成公告 / Generate"),
		Close:           plainText("取消 / Cancel"),
		CallbackID:      callbackAnnouncementForm,
		PrivateMetadata: viewMetadata{Type: typ, Channel: channelID}.encode(),
		Blocks:          slack.Blocks{BlockSet: blocks},
	}, nil
}

// buildResultBlocks 生成结果消息。复制与编辑按钮只携带会话键，
// 内容从会话存储取回，避免触碰按钮 value 的 2000 字符上限。
func buildResultBlocks(result announce.Result, typ announce.Type, sessionKey string) []slack.Block {
	copyButton := func(part, label string) *slack.ButtonBlockElement {
		return slack.NewButtonBlockElement("copy_"+part, sessionKey+"|"+part, plainText(label))
	}

	return []slack.Block{
		slack.NewHeaderBlock(plainText("✅ 公告已生成 / Announcement Generated")),
		slack.NewContextBlock("result_type",
			markdown(fmt.Sprintf("*类型 / Type:* %s", announce.TypeLabel(typ)))),
		slack.NewDividerBlock(),
		slack.NewSectionBlock(
			markdown(fmt.Sprintf("*📢 中文标题 / Chinese Title*\n%s", result.CNTitle)),
			nil, slack.NewAccessory(copyButton("cn_title", "📋 复制"))),
		slack.NewSectionBlock(
			markdown(fmt.Sprintf("*📝 中文内容 / Chinese Content*\n```%s```", result.CNContent)),
			nil, slack.NewAccessory(copyButton("cn_content", "📋 复制"))),
		slack.NewDividerBlock(),
		slack.NewSectionBlock(
			markdown(fmt.Sprintf("*📢 英文标题 / English Title*\n%s", result.ENTitle)),
			nil, slack.NewAccessory(copyButton("en_title", "📋 Copy"))),
		slack.NewSectionBlock(
			markdown(fmt.Sprintf("*📝 英文内容 / English Content*\n```%s```", result.ENContent)),
			nil, slack.NewAccessory(copyButton("en_content", "📋 Copy"))),
		slack.NewDividerBlock(),
		slack.NewActionBlock("result_actions",
			slack.NewButtonBlockElement("edit_chinese", sessionKey, plainText("✏️ 编辑中文 / Edit Chinese")).WithStyle(slack.StylePrimary),
			slack.NewButtonBlockElement("regenerate", string(typ), plainText("🔄 重新生成 / Regenerate")),
			slack.NewButtonBlockElement("done", string(typ), plainText("✓ 完成 / Done")),
		),
	}
}

// resultFallbackText 通知栏使用的纯文本
func resultFallbackText(result announce.Result) string {
	return fmt.Sprintf("公告已生成\n\n中文标题: %s\n中文内容: %s\n英文标题: %s\n英文内容: %s",
		result.CNTitle, result.CNContent, result.ENTitle, result.ENContent)
}

var copyPartLabels = map[string]string{
	"cn_title":   "📢 中文标题 / Chinese Title",
	"cn_content": "📝 中文内容 / Chinese Content",
	"en_title":   "📢 英文标题 / English Title",
	"en_content": "📝 英文内容 / English Content",
}

func copyPartContent(result announce.Result, part string) string {
	switch part {
	case "cn_title":
		return result.CNTitle
	case "cn_content":
		return result.CNContent
	case "en_title":
		return result.ENTitle
	case "en_content":
		return result.ENContent
	}
	return ""
}

// buildCopyDM 私信中可整段选中复制的内容
func buildCopyDM(part, content string) []slack.Block {
	return []slack.Block{
		slack.NewSectionBlock(
			markdown(fmt.Sprintf("%s\n\n──────────────────\n\n```%s```\n\n──────────────────\n\n✅ 请复制上方内容 / Please copy the content above",
				copyPartLabels[part], content)),
			nil, nil),
	}
}

// buildEditModal 中文编辑模态，底部附当前英文版本供对照
func buildEditModal(typ announce.Type, channelID, sessionKey string, current announce.Result) slack.ModalViewRequest {
	titleInput := slack.NewPlainTextInputBlockElement(nil, "title_value")
	titleInput.InitialValue = current.CNTitle

	contentInput := slack.NewPlainTextInputBlockElement(nil, "content_value")
	contentInput.InitialValue = current.CNContent
	contentInput.Multiline = true

	enContent := current.ENContent
	if enContent == "" {
		enContent = "N/A"
	} else if runes := []rune(enContent); len(runes) > 200 {
		enContent = string(runes[:200]) + "..."
	}
	enTitle := current.ENTitle
	if enTitle == "" {
		enTitle = "N/A"
	}

	blocks := []slack.Block{
		slack.NewSectionBlock(markdown("编辑中文内容，保存后将自动翻译更新英文版本\nEdit Chinese content, English will be auto-translated after saving."), nil, nil),
		slack.NewDividerBlock(),
		slack.NewInputBlock("cn_title", plainText("中文标题 / Chinese Title"), nil, titleInput),
		slack.NewInputBlock("cn_content", plainText("中文内容 / Chinese Content"), nil, contentInput),
		slack.NewContextBlock("edit_hint",
			markdown("💡 提示: 可以复制原内容粘贴修改，或直接编辑")),
		slack.NewSectionBlock(markdown("*当前英文版本 / Current English Version:*"), nil, nil),
		slack.NewContextBlock("edit_en_title", markdown("标题: "+enTitle)),
		slack.NewContextBlock("edit_en_content", markdown("内容:\n"+enContent)),
	}

	return slack.ModalViewRequest{
		Type:            slack.VTModal,
		Title:           plainText("编辑中文"),
		Submit:          plainText("保存并翻译 / Save & Translate"),
		Close:           plainText("取消 / Cancel"),
		CallbackID:      callbackEditForm,
		PrivateMetadata: viewMetadata{Type: typ, Channel: channelID, SessionKey: sessionKey}.encode(),
		Blocks:          slack.Blocks{BlockSet: blocks},
	}
}

// buildLoadingBlocks 等待消息
func buildLoadingBlocks(message string) []slack.Block {
	return []slack.Block{
		slack.NewSectionBlock(markdown("⏳ "+message), nil, nil),
	}
}

// buildErrorBlocks 失败消息，带重试按钮
func buildErrorBlocks(err error) []slack.Block {
	return []slack.Block{
		slack.NewSectionBlock(
			markdown(fmt.Sprintf("❌ *生成失败 / Generation Error*\n\n`%s`\n\n请重试或联系管理员 / Please retry or contact admin", err.Error())),
			nil, nil),
		slack.NewActionBlock("error_actions",
			slack.NewButtonBlockElement("retry", "retry", plainText("🔄 重试 / Retry")),
		),
	}
}
