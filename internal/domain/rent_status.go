package domain

import (
	"time"
)

// DateLayout 日期字段统一格式
const DateLayout = "2006-01-02"

// ParseDate parses the calendar date at the start of s ("2024-03-01" or
// "2024-03-01T10:00:00Z") as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	return time.ParseInLocation(DateLayout, s, loc)
}

// StartOfDay 将时间归零到当天 00:00（保留时区）
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Today returns now's calendar date as YYYY-MM-DD.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}

// DeriveRentStatus 计算租金的展示状态
// pending 且到期日（按日期比较）早于今天 => overdue；其余状态原样返回。
// 到期日无法解析时不做推导。
func DeriveRentStatus(stored, dueDate string, now time.Time) string {
	if stored != PaymentStatusPending {
		return stored
	}
	due, err := ParseDate(dueDate, now.Location())
	if err != nil {
		return stored
	}
	if due.Before(StartOfDay(now)) {
		return PaymentStatusOverdue
	}
	return stored
}

// DaysOverdue returns whole days between dueDate and now, 0 when not yet due.
func DaysOverdue(dueDate string, now time.Time) int {
	due, err := ParseDate(dueDate, now.Location())
	if err != nil {
		return 0
	}
	today := StartOfDay(now)
	if !due.Before(today) {
		return 0
	}
	// 按日历日计算，避开夏令时导致的 23/25 小时
	days := 0
	for d := due; d.Before(today); d = d.AddDate(0, 0, 1) {
		days++
	}
	return days
}
