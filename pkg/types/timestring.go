package types

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// timeFormat формат времени HH:MM
const timeFormat = "15:04"

// TimeString время суток в формате "HH:MM" (wall-clock, без таймзоны)
// Используется для хранения времени начала/конца слота
type TimeString string

// NewTimeString создает TimeString из time.Time (берёт только часы и минуты)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeFormat))
}

// NewTimeStringFromString создает TimeString из строки с валидацией формата
func NewTimeStringFromString(s string) (TimeString, error) {
	t := TimeString(s)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// Validate проверяет, что строка соответствует формату HH:MM
func (t TimeString) Validate() error {
	if _, err := time.Parse(timeFormat, string(t)); err != nil {
		return fmt.Errorf("invalid time string format: %v", err)
	}
	return nil
}

// IsZero возвращает true, если значение не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// String возвращает строковое представление времени
func (t TimeString) String() string {
	return string(t)
}

// minutes возвращает количество минут с начала дня
func (t TimeString) minutes() (int, error) {
	parsed, err := time.Parse(timeFormat, string(t))
	if err != nil {
		return 0, fmt.Errorf("invalid time string format: %v", err)
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// IsBefore возвращает true, если t строго раньше other
// Некорректные значения считаются несравнимыми и возвращают false
func (t TimeString) IsBefore(other TimeString) bool {
	a, err := t.minutes()
	if err != nil {
		return false
	}
	b, err := other.minutes()
	if err != nil {
		return false
	}
	return a < b
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	a, err := t.minutes()
	if err != nil {
		return false
	}
	b, err := other.minutes()
	if err != nil {
		return false
	}
	return a > b
}

// AddMinutes возвращает новое время, сдвинутое на minutes минут вперёд
// Возвращает ошибку при выходе за пределы суток
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	total, err := t.minutes()
	if err != nil {
		return "", err
	}

	total += minutes
	if total < 0 || total >= 24*60 {
		return "", fmt.Errorf("time %s + %d minutes is out of day range", t, minutes)
	}

	return TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60)), nil
}

// OnDate совмещает дату и время суток в один момент времени
// Используется для сравнения "дата+время слота" с текущим моментом
func (t TimeString) OnDate(date time.Time) (time.Time, error) {
	parsed, err := time.Parse(timeFormat, string(t))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time string format: %v", err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, date.Location()), nil
}

// Value реализует driver.Valuer для записи в БД
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return string(t), nil
}

// Scan реализует sql.Scanner для чтения из БД
// Postgres возвращает колонку TIME как время с нулевой датой
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case string:
		// Отрезаем секунды, если колонка TIME их содержит ("10:00:00")
		if len(v) > len(timeFormat) {
			v = v[:len(timeFormat)]
		}
		*t = TimeString(v)
		return t.Validate()
	case []byte:
		return t.Scan(string(v))
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into TimeString", src)
	}
}
