package announce

import "fmt"

// Type 公告类型，固定七种
type Type string

const (
	TypeMaintenancePreview     Type = "maintenance-preview"
	TypeKnownIssue             Type = "known-issue"
	TypeDailyRestart           Type = "daily-restart"
	TypeTempMaintenancePreview Type = "temp-maintenance-preview"
	TypeTempMaintenance        Type = "temp-maintenance"
	TypeResourceUpdate         Type = "resource-update"
	TypeCompensation           Type = "compensation"
)

// AllTypes 返回所有公告类型，顺序与类型选择界面一致
func AllTypes() []Type {
	return []Type{
		TypeMaintenancePreview,
		TypeKnownIssue,
		TypeDailyRestart,
		TypeTempMaintenancePreview,
		TypeTempMaintenance,
		TypeResourceUpdate,
		TypeCompensation,
	}
}

// ParseType 校验公告类型，未知类型返回 ErrUnknownType
func ParseType(s string) (Type, error) {
	t := Type(s)
	for _, known := range AllTypes() {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// FormData 表单字段，按类型不同包含不同的键，全部为字符串
type FormData map[string]string

// Field 读取字段值，缺失返回空字符串
func (d FormData) Field(name string) string {
	return d[name]
}

// Result 公告生成结果，四个字段始终存在（可能为空串）
type Result struct {
	CNTitle   string `json:"cnTitle"`
	CNContent string `json:"cnContent"`
	ENTitle   string `json:"enTitle"`
	ENContent string `json:"enContent"`
}
