package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// Day is a calendar day in the user's local day boundary. Two completions
// with the same habit and the same Day are the same logical fact, whatever
// their IDs say. Comparable, so it works as a map key.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf truncates t to its wall-clock calendar day. No timezone
// normalization beyond Y/M/D truncation.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// Today returns the current local calendar day.
func Today() Day {
	return DayOf(time.Now())
}

func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid day %q (use YYYY-MM-DD): %w", s, err)
	}
	return DayOf(t), nil
}

// Time returns midnight UTC of the day. Used for storage and range queries.
func (d Day) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Day) String() string {
	return d.Time().Format(dayLayout)
}

func (d Day) IsZero() bool {
	return d == Day{}
}

func (d Day) AddDays(n int) Day {
	return DayOf(d.Time().AddDate(0, 0, n))
}

func (d Day) Next() Day { return d.AddDays(1) }
func (d Day) Prev() Day { return d.AddDays(-1) }

func (d Day) Before(other Day) bool {
	return d.Time().Before(other.Time())
}

func (d Day) After(other Day) bool {
	return d.Time().After(other.Time())
}

// MonthStart returns the first day of the month containing d.
func (d Day) MonthStart() Day {
	return Day{Year: d.Year, Month: d.Month, Day: 1}
}

// MonthEnd returns the last day of the month containing d.
func (d Day) MonthEnd() Day {
	return DayOf(time.Date(d.Year, d.Month+1, 0, 0, 0, 0, 0, time.UTC))
}

func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Day) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer so Day maps onto a DATE column.
func (d Day) Value() (driver.Value, error) {
	return d.Time(), nil
}

// Scan implements sql.Scanner for DATE columns.
func (d *Day) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = DayOf(v)
		return nil
	case string:
		parsed, err := ParseDay(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		return d.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Day", src)
	}
}
