package announce

import (
	"fmt"
	"strings"

	"github.com/nerdneilsfield/go-announce-bot/pkg/glossary"
)

// maxGlossaryTerms 提示词中最多携带的术语数，避免超出 token 限制
const maxGlossaryTerms = 100

// PromptBuilder 提示词构建器
type PromptBuilder struct {
	// GameName 游戏英文名，出现在系统提示词中
	GameName string
	// TimezoneLabel 英文公告使用的时区标识，如 "(UTC+8)"
	TimezoneLabel string
}

// NewPromptBuilder 创建提示词构建器
func NewPromptBuilder(gameName, timezoneLabel string) *PromptBuilder {
	if gameName == "" {
		gameName = "Teon: Revelation"
	}
	if timezoneLabel == "" {
		timezoneLabel = "(UTC+8)"
	}
	return &PromptBuilder{GameName: gameName, TimezoneLabel: timezoneLabel}
}

// BuildGlossaryContext 构建术语表上下文：最多前 100 条，按原始顺序，
// 每条一行 "- {cn} → {en}"；空术语表返回空串。
func BuildGlossaryContext(terms []glossary.Term) string {
	if len(terms) == 0 {
		return ""
	}

	if len(terms) > maxGlossaryTerms {
		terms = terms[:maxGlossaryTerms]
	}

	lines := make([]string, 0, len(terms))
	for _, t := range terms {
		lines = append(lines, fmt.Sprintf("- %s → %s", t.CN, t.EN))
	}

	return "Game Terminology Glossary (use these translations):\n" + strings.Join(lines, "\n")
}

// SystemPrompt 公告生成的系统提示词
func (pb *PromptBuilder) SystemPrompt() string {
	return fmt.Sprintf(`You are a professional game announcement writer for %q, a mobile MMORPG.

Your task is to generate bilingual (Chinese and English) announcements based on the user's input.

Important rules:
1. Always include both Chinese and English versions
2. Format the output clearly with "中文标题:", "中文内容:", "英文标题:", "英文内容:" labels
3. Time format: Always add "【服务器时间】" before any time mentions
4. For times before 12:00, specify "上午" (AM); after 12:00, specify "下午" (PM)
5. Game name: Use %q in English
6. Timezone: Use %s for English announcements
7. Never mention compensation in announcements (compensation emails are sent separately)
8. Maintain professional and friendly tone
9. Keep sentences clear and concise`, pb.GameName, pb.GameName, pb.TimezoneLabel)
}

// BuildAnnouncementPrompt 组合术语表上下文、模板主体与固定规则，
// 输出结尾的四行标签格式是 Result Parser 的解析契约，不是装饰。
func (pb *PromptBuilder) BuildAnnouncementPrompt(typ Type, data FormData, terms []glossary.Term) (string, error) {
	tpl, err := GetTemplate(typ)
	if err != nil {
		return "", err
	}

	glossaryContext := BuildGlossaryContext(terms)

	return fmt.Sprintf(`%s

Please generate a %s announcement.

%s

Remember:
- All times must include "【服务器时间】" in Chinese and %q in English
- For times before 12:00, use "上午" (AM) in Chinese
- For times 12:00 or later, use "下午" (PM) in Chinese
- Never mention compensation in announcements (compensation emails are separate)

Output format:
中文标题: [title]
中文内容: [content]
英文标题: [title]
英文内容: [content]`, glossaryContext, tpl.Label, tpl.Prompt(data), pb.TimezoneLabel), nil
}

// ReTranslateSystemPrompt 中文编辑后重新翻译的系统提示词，
// 只约束中译英方向，不再重写中文。
func (pb *PromptBuilder) ReTranslateSystemPrompt(terms []glossary.Term) string {
	return fmt.Sprintf(`You are a professional translator for a mobile game called %q.

%s

Rules:
1. The user has edited the Chinese version, translate it to English
2. Use the glossary terms when matching Chinese terms appear
3. Keep the tone consistent with the original English version
4. Maintain the structure and format`, pb.GameName, BuildGlossaryContext(terms))
}

// BuildReTranslatePrompt 构建重新翻译的用户提示词，附带原英文版本作参考
func (pb *PromptBuilder) BuildReTranslatePrompt(cnTitle, cnContent, originalEnglish string) string {
	return fmt.Sprintf(`Original English for reference:
%s

Please translate this updated Chinese:
Title: %s
Content: %s`, originalEnglish, cnTitle, cnContent)
}
