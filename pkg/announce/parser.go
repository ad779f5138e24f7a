package announce

import (
	"strings"
	"unicode/utf8"
)

// section 解析状态机的当前段落
type section int

const (
	sectionNone section = iota
	sectionCNTitle
	sectionCNContent
	sectionENTitle
	sectionENContent
)

// maxTitleLineRunes 重翻译结果中可被视作标题的最大行长
const maxTitleLineRunes = 100

// matchLabel 判断行是否以指定标签开头（允许全角或半角冒号），
// 返回冒号之后的剩余文本。
func matchLabel(line, label string) (string, bool) {
	if !strings.HasPrefix(line, label) {
		return "", false
	}
	rest := line[len(label):]
	switch {
	case strings.HasPrefix(rest, "："):
		rest = rest[len("："):]
	case strings.HasPrefix(rest, ":"):
		rest = rest[1:]
	default:
		return "", false
	}
	return strings.TrimSpace(rest), true
}

// ParseResult 将生成的原始文本拆分为四段结构化结果。
// 按行扫描并维护当前段落指针；标题标签行的剩余部分算作首行内容，
// 内容标签行本身不产生内容。段落在遇到下一个标签或文本结束时关闭，
// 缓冲行按换行拼接并去除首尾空白。四个字段始终存在，未命中的段落为空串。
func ParseResult(raw string) Result {
	var parsed Result

	current := sectionNone
	var buf []string

	flush := func() {
		if current == sectionNone {
			return
		}
		text := strings.TrimSpace(strings.Join(buf, "\n"))
		switch current {
		case sectionCNTitle:
			parsed.CNTitle = text
		case sectionCNContent:
			parsed.CNContent = text
		case sectionENTitle:
			parsed.ENTitle = text
		case sectionENContent:
			parsed.ENContent = text
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)

		if rest, ok := matchLabel(trimmed, "中文标题"); ok {
			flush()
			current = sectionCNTitle
			buf = []string{rest}
		} else if _, ok := matchLabel(trimmed, "中文内容"); ok {
			flush()
			current = sectionCNContent
			buf = nil
		} else if rest, ok := matchLabel(trimmed, "英文标题"); ok {
			flush()
			current = sectionENTitle
			buf = []string{rest}
		} else if _, ok := matchLabel(trimmed, "英文内容"); ok {
			flush()
			current = sectionENContent
			buf = nil
		} else if current != sectionNone {
			buf = append(buf, line)
		}
	}

	flush()
	return parsed
}

// ParseReTranslation 解析重新翻译的自由文本。生成结果不保证带四段标签，
// 这里用宽松启发式：正文开始前最后一个短于 100 字符的非空行视为英文标题，
// 其余拼为英文内容。标题或内容缺失时回退到原英文字段；中文字段始终
// 按编辑后的值原样透传，不做任何回退。
func ParseReTranslation(raw, cnTitle, cnContent string, original Result) Result {
	var enTitle string
	var contentLines []string
	inContent := false

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)

		if !inContent && trimmed != "" && utf8.RuneCountInString(trimmed) < maxTitleLineRunes && len(contentLines) == 0 {
			enTitle = trimmed
		} else {
			inContent = true
			contentLines = append(contentLines, line)
		}
	}

	enContent := strings.TrimSpace(strings.Join(contentLines, "\n"))

	if enTitle == "" {
		enTitle = original.ENTitle
		if enTitle == "" {
			enTitle = cnTitle
		}
	}
	if enContent == "" {
		enContent = original.ENContent
		if enContent == "" {
			enContent = cnContent
		}
	}

	return Result{
		CNTitle:   cnTitle,
		CNContent: cnContent,
		ENTitle:   enTitle,
		ENContent: enContent,
	}
}
