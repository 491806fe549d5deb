package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTimeString возвращается, когда строку нельзя разобрать как время суток
var ErrInvalidTimeString = errors.New("types: invalid time string")

const minutesPerDay = 24 * 60

// TimeString время суток с точностью до минуты в формате "HH:MM"
// Секунды и доли секунд отбрасываются при нормализации, поэтому
// "09:00", "09:00:00" и "9:00:59" дают одно и то же значение "09:00"
type TimeString string

// NewTimeString создает TimeString из time.Time (берется локальное время часов)
func NewTimeString(t time.Time) TimeString {
	return fromMinutes(t.Hour()*60 + t.Minute())
}

// NewTimeStringFromString разбирает "HH:MM" или "HH:MM:SS" и нормализует до минут
func NewTimeStringFromString(s string) (TimeString, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	if len(parts) == 3 {
		// секунды валидируем, но не храним
		secPart := parts[2]
		if idx := strings.IndexByte(secPart, '.'); idx >= 0 {
			secPart = secPart[:idx]
		}
		seconds, err := strconv.Atoi(secPart)
		if err != nil || seconds < 0 || seconds > 59 {
			return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
		}
	}

	return fromMinutes(hours*60 + minutes), nil
}

// MustTimeString как NewTimeStringFromString, но паникует при ошибке. Только для констант и тестов
func MustTimeString(s string) TimeString {
	ts, err := NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return ts
}

func fromMinutes(total int) TimeString {
	return TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60))
}

// Minutes возвращает количество минут с начала суток
func (t TimeString) Minutes() int {
	normalized, err := NewTimeStringFromString(string(t))
	if err != nil {
		return 0
	}
	h, _ := strconv.Atoi(string(normalized)[:2])
	m, _ := strconv.Atoi(string(normalized)[3:])
	return h*60 + m
}

// AddMinutes возвращает время, сдвинутое на n минут. Переход через полночь запрещен
func (t TimeString) AddMinutes(n int) (TimeString, error) {
	total := t.Minutes() + n
	if total < 0 || total >= minutesPerDay {
		return "", fmt.Errorf("%w: %s%+d minutes crosses day boundary", ErrInvalidTimeString, t, n)
	}
	return fromMinutes(total), nil
}

// IsBefore строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	return t.Minutes() < other.Minutes()
}

// IsAfter строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return t.Minutes() > other.Minutes()
}

// IsZero true для пустого значения
func (t TimeString) IsZero() bool {
	return t == ""
}

func (t TimeString) String() string {
	return string(t)
}

// Scan реализует sql.Scanner. Postgres TIME приходит строкой или time.Time
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	case string:
		ts, err := NewTimeStringFromString(v)
		if err != nil {
			return err
		}
		*t = ts
		return nil
	case []byte:
		ts, err := NewTimeStringFromString(string(v))
		if err != nil {
			return err
		}
		*t = ts
		return nil
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidTimeString, src)
	}
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t == "" {
		return nil, nil
	}
	return string(t), nil
}
