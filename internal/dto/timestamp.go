package dto

import (
	"bytes"
	"fmt"
	"time"
)

// TimestampLayout - ISO-8601 с числовым смещением (+00:00), дробная часть только если есть
const TimestampLayout = "2006-01-02T15:04:05.999999999-07:00"

// Timestamp - дата-время в JSON.
// Принимает RFC 3339 (Z или смещение), отдаёт всегда числовое смещение.
type Timestamp struct {
	time.Time
}

// NewTimestamp оборачивает time.Time
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, len(TimestampLayout)+2)
	buf = append(buf, '"')
	buf = t.AppendFormat(buf, TimestampLayout)
	buf = append(buf, '"')
	return buf, nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid date-time %s: expected an ISO-8601 string such as \"2025-04-01T00:00:00+00:00\"", data)
	}

	parsed, err := time.Parse(time.RFC3339Nano, string(data[1:len(data)-1]))
	if err != nil {
		return fmt.Errorf("invalid date-time %s: expected an ISO-8601 string such as \"2025-04-01T00:00:00+00:00\"", data)
	}

	t.Time = parsed
	return nil
}
