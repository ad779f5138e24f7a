package announce

import "fmt"

// Template 公告模板：展示名称、字段集合与提示词生成函数
type Template struct {
	// Label 类型展示名称（中文 / 英文）
	Label string
	// Fields 该类型 FormData 中出现的字段名
	Fields []string
	// Prompt 纯函数，根据表单数据生成该类型的提示词主体
	Prompt func(data FormData) string
}

// GetTemplate 按类型取模板，未知类型返回 ErrUnknownType
func GetTemplate(typ Type) (Template, error) {
	tpl, ok := catalog[typ]
	if !ok {
		return Template{}, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
	return tpl, nil
}

// TypeLabel 返回类型展示名称，未知类型原样返回
func TypeLabel(typ Type) string {
	if tpl, ok := catalog[typ]; ok {
		return tpl.Label
	}
	return string(typ)
}

// orPlaceholder 字段为空时使用方括号占位符，字段永远不会被省略
func orPlaceholder(data FormData, name, placeholder string) string {
	if v := data.Field(name); v != "" {
		return v
	}
	return placeholder
}

var catalog = map[Type]Template{
	TypeMaintenancePreview: {
		Label:  "维护预告 / Maintenance Preview",
		Fields: []string{"date", "startTime", "duration", "notes", "reopenTime"},
		Prompt: func(data FormData) string {
			return fmt.Sprintf(`Generate a maintenance preview announcement with:
- Maintenance date: %s
- Start time: %s
- Duration: %s hours
- Estimated reopen: %s

Template reference:
中文: 亲爱的冒险者，【游戏】于【时间】更新维护，届时我们将关闭服务器。预计维护时间x小时，开服时间为xx。详细的更新内容请留意官网及游戏内的更新公告
英文: Dear Adventurers, [Game] will be undergoing maintenance on [Time], during which the server will be closed. The maintenance is expected to last for x hours and the server is expected to reopen at xx.`,
				orPlaceholder(data, "date", "[日期]"),
				orPlaceholder(data, "startTime", "[开始时间]"),
				orPlaceholder(data, "duration", "[时长]"),
				orPlaceholder(data, "reopenTime", "[开服时间]"))
		},
	},
	TypeKnownIssue: {
		Label:  "已知问题公告 / Known Issue Announcement",
		Fields: []string{"issueDescription", "solution"},
		Prompt: func(data FormData) string {
			return fmt.Sprintf(`Generate a known issue announcement with:
- Issue description: %s
- Solution: %s

Template reference:
中文: 亲爱的冒险者，我们核实发现如下问题：[问题描述]。对于给您造成的不便，我们深表歉意。目前问题正在抓紧修复中，修复之后将另行通知。
英文: Dear Adventurers, We have verified and found the following issues: [问题描述]. We apologize for any inconvenience caused. The problem is currently being fixed and we will notify you when it is fixed.`,
				orPlaceholder(data, "issueDescription", "[问题描述]"),
				orPlaceholder(data, "solution", "[处理方案]"))
		},
	},
	TypeDailyRestart: {
		Label:  "日常重启更新公告 / Daily Restart Update Announcement",
		Fields: []string{"restartTime", "fixes"},
		Prompt: func(data FormData) string {
			return fmt.Sprintf(`Generate a daily restart update announcement with:
- Restart time: %s
- Fixed issues: %s

Template reference:
中文: 亲爱的冒险者，我们已于【时间】日常重启服务器时修复如下问题：[修复内容]。对于给您造成的不便，我们深表歉意。如有问题请随时联系我们，祝您游戏愉快！
英文: Dear Adventurers, we have fixed the following issues during the daily restart of the server at [time]: [修复内容]. We apologize for any inconvenience caused. Please feel free to contact us if you have any questions, and enjoy the game!`,
				orPlaceholder(data, "restartTime", "[重启时间]"),
				orPlaceholder(data, "fixes", "[修复内容]"))
		},
	},
	TypeTempMaintenancePreview: {
		Label:  "临时维护预告 / Temporary Maintenance Preview",
		Fields: []string{"reason", "maintenanceTime", "duration", "reopenTime"},
		Prompt: func(data FormData) string {
			return fmt.Sprintf(`Generate a temporary maintenance preview announcement with:
- Issue reason: %s
- Maintenance time: %s
- Duration: %s hours
- Estimated reopen: %s

Template reference:
中文: 亲爱的冒险者，目前我们核实到【问题】，为了尽快修复此问题，我们将会在【时间】进行服务器维护，预计维护时间x小时，开服时间为xx时间。对于给您造成的不便，我们深表歉意。
英文: Dear Adventurers, at present we have verified [problem], in order to fix this problem as soon as possible, we will carry out server maintenance at [time], the expected maintenance time x hours, the opening time is xx time. We apologize for the inconvenience caused to you.`,
				orPlaceholder(data, "reason", "[问题原因]"),
				orPlaceholder(data, "maintenanceTime", "[维护时间]"),
				orPlaceholder(data, "duration", "[时长]"),
				orPlaceholder(data, "reopenTime", "[开服时间]"))
		},
	},
	TypeTempMaintenance: {
		Label:  "临时维护公告 / Temporary Maintenance Announcement",
		Fields: []string{"startTime", "endTime", "impact"},
		Prompt: func(data FormData) string {
			return fmt.Sprintf(`Generate a temporary maintenance announcement with:
- Start time: %s
- Estimated end: %s
- Impact: %s

Template reference:
中文: 亲爱的冒险者，由于[原因]，目前玩家无法正常登录游戏。因此我们将对服务器进行临时维护。
维护时间：[时间]
维护影响：[影响说明]
根据维护进度，维护时间可能会有所延长。
维护进度早于预期完成，会提前结束维护，开放登入。
给玩家造成不便，我们深表歉意。

英文: Dear Adventurers, Due to an unexpected [problem], players are currently unable to log into the game, therefore the server is undergoing a temporary maintenance.
Maintenance Period: [time] (UTC+8)
Impact: [impact]
Please note:
1. The maintenance period may be extended depending on the progress of the work.
2. If the maintenance is completed ahead of schedule, the servers will be reopened earlier.
We sincerely apologize for any inconvenience this may cause.`,
				orPlaceholder(data, "startTime", "[开始时间]"),
				orPlaceholder(data, "endTime", "[结束时间]"),
				orPlaceholder(data, "impact", "[维护影响]"))
		},
	},
	TypeResourceUpdate: {
		Label:  "资源更新公告 / Resource Update Announcement",
		Fields: []string{"updateTime", "resourceVersion", "fixes"},
		Prompt: func(data FormData) string {
			return fmt.Sprintf(`Generate a resource update announcement with:
- Update time: %s
- Resource version: %s
- Fixed issues: %s

Template reference:
中文: 亲爱的冒险者，我们已于【时间】推出新的资源。新资源号：[资源号]。本次资源更新将修复如下问题：[修复内容]。祝您游戏愉快
英文: Dear Adventurers, We have launched a new resource at [time]. New Resource: [资源号]. This resource update will fix the following issues: [修复内容]. Enjoy your game!`,
				orPlaceholder(data, "updateTime", "[更新时间]"),
				orPlaceholder(data, "resourceVersion", "[资源号]"),
				orPlaceholder(data, "fixes", "[修复内容]"))
		},
	},
	TypeCompensation: {
		Label:  "补偿邮件 / Compensation Package",
		Fields: []string{"contents"},
		Prompt: func(data FormData) string {
			return fmt.Sprintf(`Generate a compensation email with:
- Package contents: %s

Template reference:
Subject: Compensation Package

Dear Adventurer,

We have recently made some fixes and appreciate your patience during this period.
As a token of our apology, we have sent a small compensation package to your in-game mailbox. Please check your mail and enjoy the rewards!

Package Contents:
[物品]

Friendly Reminder:
- The mail will be automatically deleted in 7 days. Please claim the rewards in time.
- Ensure you have sufficient storage space before claiming to avoid any failures.
- Only one character per account is eligible to claim this compensation package.

Sincerely,
Teon: Revelation Team`,
				orPlaceholder(data, "contents", "[物品列表]"))
		},
	},
}
