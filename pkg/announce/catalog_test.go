package announce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTemplate(t *testing.T) {
	t.Run("every type has a template", func(t *testing.T) {
		for _, typ := range AllTypes() {
			tpl, err := GetTemplate(typ)
			require.NoError(t, err, "type %s", typ)
			assert.NotEmpty(t, tpl.Label)
			assert.NotEmpty(t, tpl.Fields)
			assert.NotNil(t, tpl.Prompt)
			assert.NotEmpty(t, tpl.Prompt(FormData{}))
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := GetTemplate(Type("newsletter"))
		assert.ErrorIs(t, err, ErrUnknownType)
	})
}

func TestTypeLabel(t *testing.T) {
	assert.Equal(t, "维护预告 / Maintenance Preview", TypeLabel(TypeMaintenancePreview))
	// 未知类型原样返回
	assert.Equal(t, "newsletter", TypeLabel(Type("newsletter")))
}

func TestParseType(t *testing.T) {
	for _, typ := range AllTypes() {
		got, err := ParseType(string(typ))
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}

	_, err := ParseType("weekly-digest")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestTemplatePrompts(t *testing.T) {
	t.Run("maintenance preview includes reopen time", func(t *testing.T) {
		tpl, err := GetTemplate(TypeMaintenancePreview)
		require.NoError(t, err)

		prompt := tpl.Prompt(FormData{
			"date":       "2025-03-07",
			"startTime":  "09:30",
			"duration":   "3",
			"reopenTime": "下午 12:30",
		})
		assert.Contains(t, prompt, "Maintenance date: 2025-03-07")
		assert.Contains(t, prompt, "Estimated reopen: 下午 12:30")
		assert.Contains(t, prompt, "亲爱的冒险者")
	})

	t.Run("compensation never appears in regular templates", func(t *testing.T) {
		for _, typ := range AllTypes() {
			if typ == TypeCompensation {
				continue
			}
			tpl, err := GetTemplate(typ)
			require.NoError(t, err)
			assert.NotContains(t, tpl.Prompt(FormData{}), "compensation items")
		}
	})

	t.Run("empty fields replaced by bracket placeholders", func(t *testing.T) {
		tpl, err := GetTemplate(TypeKnownIssue)
		require.NoError(t, err)
		prompt := tpl.Prompt(FormData{})
		assert.Contains(t, prompt, "[问题描述]")
	})
}
