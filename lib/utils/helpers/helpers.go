package helpers

import (
	"context"
	"time"

	"docflow-backend/config"
)

func IsContextDone(ctx context.Context) bool {
	if ctx == nil {
		return true
	}
	select {
	case <-ctx.Done():
		return true
	default:
	}
	return false
}

// DocLocation — часовой пояс отображаемых времён (по умолчанию WIB, UTC+7).
func DocLocation() *time.Location {
	offset := 7
	if config.Conf != nil {
		offset = config.Conf.Docs.TimezoneOffsetHours
	}
	return time.FixedZone("DOC", offset*60*60)
}

// FormatDocTime — времена в ответах всегда в поясе документооборота.
func FormatDocTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format("2006-01-02 15:04:05")
}

func FormatDocTimePtr(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return FormatDocTime(*t, loc)
}
