// Package dates は日単位の日付比較、期限切れ判定、Todoの日付検証を行います。
// 時刻は常にローカルタイムゾーンで日単位に切り捨てて扱います。
package dates

import (
	"fmt"
	"time"
)

// CalendarDay は時刻を持たない年月日です。
type CalendarDay struct {
	Year  int
	Month time.Month
	Day   int
}

// NormalizeDay は t をローカル時刻の日付に切り捨てます。
func NormalizeDay(t time.Time) CalendarDay {
	y, m, d := t.In(time.Local).Date()
	return CalendarDay{Year: y, Month: m, Day: d}
}

// Compare は c が o より前なら -1、同じなら 0、後なら 1 を返します。
func (c CalendarDay) Compare(o CalendarDay) int {
	switch {
	case c.Year != o.Year:
		return sign(c.Year - o.Year)
	case c.Month != o.Month:
		return sign(int(c.Month) - int(o.Month))
	default:
		return sign(c.Day - o.Day)
	}
}

func (c CalendarDay) Before(o CalendarDay) bool { return c.Compare(o) < 0 }
func (c CalendarDay) After(o CalendarDay) bool  { return c.Compare(o) > 0 }
func (c CalendarDay) Equal(o CalendarDay) bool  { return c.Compare(o) == 0 }

// Time はその日のローカル時刻 00:00 を返します。
func (c CalendarDay) Time() time.Time {
	return time.Date(c.Year, c.Month, c.Day, 0, 0, 0, 0, time.Local)
}

func (c CalendarDay) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", c.Year, int(c.Month), c.Day)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// Clock は「現在」を与えます。テストでは固定値に差し替えます。
type Clock interface {
	Now() time.Time
}

// SystemClock は time.Now を使う Clock です。
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock は常に同じ時刻を返します。
type FixedClock time.Time

func (f FixedClock) Now() time.Time { return time.Time(f) }

// Today は clock の現在日を返します。
func Today(clock Clock) CalendarDay {
	return NormalizeDay(clock.Now())
}
