package slackbot

import (
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/go-announce-bot/pkg/announce"
)

func TestViewMetadata_RoundTrip(t *testing.T) {
	meta := viewMetadata{
		Type:       announce.TypeMaintenancePreview,
		Channel:    "C123456",
		SessionKey: "U1_1700000000000",
	}

	decoded := decodeMetadata(meta.encode())
	assert.Equal(t, meta, decoded)

	// 空串与非法 JSON 都退化为零值
	assert.Equal(t, viewMetadata{}, decodeMetadata(""))
	assert.Equal(t, viewMetadata{}, decodeMetadata("{broken"))
}

func TestBuildTypeSelectionModal(t *testing.T) {
	modal := buildTypeSelectionModal("C42")

	assert.Equal(t, slack.VTModal, modal.Type)
	assert.Equal(t, "C42", decodeMetadata(modal.PrivateMetadata).Channel)

	// 每种类型都有一个按钮
	var buttons int
	for _, block := range modal.Blocks.BlockSet {
		if actions, ok := block.(*slack.ActionBlock); ok {
			buttons += len(actions.Elements.ElementSet)
		}
	}
	assert.Equal(t, len(announce.AllTypes()), buttons)
}

func TestBuildFormModal(t *testing.T) {
	t.Run("every type has a form", func(t *testing.T) {
		for _, typ := range announce.AllTypes() {
			modal, err := buildFormModal(typ, "C42")
			require.NoError(t, err, "type %s", typ)

			assert.Equal(t, callbackAnnouncementForm, modal.CallbackID)
			meta := decodeMetadata(modal.PrivateMetadata)
			assert.Equal(t, typ, meta.Type)
			assert.Equal(t, "C42", meta.Channel)
			assert.NotNil(t, modal.Submit)
		}
	})

	t.Run("maintenance preview block ids match extractor keys", func(t *testing.T) {
		modal, err := buildFormModal(announce.TypeMaintenancePreview, "C42")
		require.NoError(t, err)

		var blockIDs []string
		for _, block := range modal.Blocks.BlockSet {
			if input, ok := block.(*slack.InputBlock); ok {
				blockIDs = append(blockIDs, input.BlockID)
			}
		}
		assert.Equal(t, []string{"date", "start_time", "duration", "notes"}, blockIDs)
	})

	t.Run("unknown type is an error", func(t *testing.T) {
		_, err := buildFormModal(announce.Type("bogus"), "C42")
		assert.Error(t, err)
	})
}

func TestBuildResultBlocks(t *testing.T) {
	result := announce.Result{
		CNTitle:   "标题",
		CNContent: "内容",
		ENTitle:   "Title",
		ENContent: "Content",
	}

	blocks := buildResultBlocks(result, announce.TypeKnownIssue, "U1_123")

	// 复制按钮携带会话键与字段名，而不是内容本身
	var copyValues []string
	for _, block := range blocks {
		section, ok := block.(*slack.SectionBlock)
		if !ok || section.Accessory == nil || section.Accessory.ButtonElement == nil {
			continue
		}
		copyValues = append(copyValues, section.Accessory.ButtonElement.Value)
	}
	assert.Equal(t, []string{
		"U1_123|cn_title",
		"U1_123|cn_content",
		"U1_123|en_title",
		"U1_123|en_content",
	}, copyValues)
}

func TestCopyPartContent(t *testing.T) {
	result := announce.Result{
		CNTitle:   "标题",
		CNContent: "内容",
		ENTitle:   "Title",
		ENContent: "Content",
	}

	assert.Equal(t, "标题", copyPartContent(result, "cn_title"))
	assert.Equal(t, "内容", copyPartContent(result, "cn_content"))
	assert.Equal(t, "Title", copyPartContent(result, "en_title"))
	assert.Equal(t, "Content", copyPartContent(result, "en_content"))
	assert.Equal(t, "", copyPartContent(result, "unknown"))
}

func TestBuildEditModal(t *testing.T) {
	current := announce.Result{
		CNTitle:   "标题",
		CNContent: "内容",
		ENTitle:   "Title",
		ENContent: "Content",
	}

	modal := buildEditModal(announce.TypeKnownIssue, "C42", "U1_123", current)

	assert.Equal(t, callbackEditForm, modal.CallbackID)
	meta := decodeMetadata(modal.PrivateMetadata)
	assert.Equal(t, announce.TypeKnownIssue, meta.Type)
	assert.Equal(t, "U1_123", meta.SessionKey)

	// 输入框带当前中文作为初始值
	var initials []string
	for _, block := range modal.Blocks.BlockSet {
		if input, ok := block.(*slack.InputBlock); ok {
			if text, ok := input.Element.(*slack.PlainTextInputBlockElement); ok {
				initials = append(initials, text.InitialValue)
			}
		}
	}
	assert.Equal(t, []string{"标题", "内容"}, initials)
}

func TestCollectViewValues(t *testing.T) {
	state := &slack.ViewState{
		Values: map[string]map[string]slack.BlockAction{
			"date": {
				"date_value": {SelectedDate: "2025-03-07"},
			},
			"start_time": {
				"time_value": {Value: "09:30"},
			},
		},
	}

	values := collectViewValues(state)
	assert.Equal(t, "2025-03-07", values["date"])
	assert.Equal(t, "09:30", values["start_time"])

	assert.Empty(t, collectViewValues(nil))
}
