package announce

import (
	"fmt"
	"strconv"
	"strings"
)

// ExtractFields 将原始提交值转换为对应类型的 FormData。
// 缺失的原始值映射为空字符串，永不报错；未知类型是硬错误。
// raw 的键为表单 block ID（如 "start_time"），与 Slack 表单布局一致。
func ExtractFields(typ Type, raw map[string]string) (FormData, error) {
	get := func(key string) string {
		return raw[key]
	}

	data := FormData{}

	switch typ {
	case TypeMaintenancePreview:
		data["date"] = get("date")
		data["startTime"] = get("start_time")
		data["duration"] = get("duration")
		data["notes"] = get("notes")
		data["reopenTime"] = ""
		if data["date"] != "" && data["startTime"] != "" && data["duration"] != "" {
			data["reopenTime"] = calculateReopenTime(data["startTime"], data["duration"])
		}

	case TypeKnownIssue:
		data["issueDescription"] = get("issue_description")
		data["solution"] = get("solution")

	case TypeDailyRestart:
		data["restartTime"] = get("restart_date") + " " + get("restart_time")
		data["fixes"] = get("fixes")

	case TypeTempMaintenancePreview:
		data["reason"] = get("reason")
		data["maintenanceTime"] = get("maintenance_date") + " " + get("start_time")
		data["duration"] = get("duration")
		data["reopenTime"] = ""
		if get("maintenance_date") != "" && get("start_time") != "" && data["duration"] != "" {
			data["reopenTime"] = calculateReopenTime(get("start_time"), data["duration"])
		}

	case TypeTempMaintenance:
		data["startTime"] = get("start_time")
		data["endTime"] = get("end_time")
		data["impact"] = get("impact")

	case TypeResourceUpdate:
		data["updateTime"] = get("update_date") + " " + get("update_time")
		data["resourceVersion"] = get("resource_version")
		data["fixes"] = get("fixes")

	case TypeCompensation:
		data["contents"] = get("contents")

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}

	return data, nil
}

// calculateReopenTime 根据开始时间（HH:MM）与时长（整数小时）推算开服时间。
// 上午/下午标签取决于未取模的小时和：跨天的 25 点仍记为"下午"，
// 这里保留该既有行为以保持生成文案稳定。任何解析失败都返回空串。
func calculateReopenTime(startTime, duration string) string {
	parts := strings.Split(startTime, ":")
	if len(parts) != 2 {
		return ""
	}

	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return ""
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return ""
	}

	// 时长非数字按 0 小时处理
	durationHours, err := strconv.Atoi(strings.TrimSpace(duration))
	if err != nil {
		durationHours = 0
	}

	endHour := hours + durationHours
	label := "下午"
	if endHour < 12 {
		label = "上午"
	}

	return fmt.Sprintf("%s %02d:%02d", label, endHour%24, minutes)
}
