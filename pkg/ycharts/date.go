package ycharts

import (
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

type dateKind uint8

const (
	dateUnset dateKind = iota
	dateCalendar
	dateRelative
)

// Date is an optional date query argument. The zero value means "not given".
// A calendar date is sent as YYYY-MM-DD; a relative date is a negative number of
// periods before now, interpreted by the server per calculation.
type Date struct {
	kind   dateKind
	t      time.Time
	offset int
}

// On returns a calendar date argument. Only the date portion of t is sent.
func On(t time.Time) Date {
	return Date{kind: dateCalendar, t: t}
}

// PeriodsAgo returns a relative date argument meaning n periods before now.
// n must be negative; any other value is rejected when the request is built.
func PeriodsAgo(n int) Date {
	return Date{kind: dateRelative, offset: n}
}

// ParseDate parses a user-supplied date: "" (not given), "YYYY-MM-DD", or a
// negative integer such as "-5". Anything else is a malformed-request error.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return On(t), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n >= 0 {
		return Date{}, malformed(msgInvalidDate)
	}
	return PeriodsAgo(n), nil
}

// IsZero reports whether the date was not given.
func (d Date) IsZero() bool {
	return d.kind == dateUnset
}

// String returns the query-string form, or "" for an unset or invalid date.
func (d Date) String() string {
	s, err := d.format()
	if err != nil {
		return ""
	}
	return s
}

func (d Date) format() (string, error) {
	switch d.kind {
	case dateCalendar:
		return d.t.Format(dateLayout), nil
	case dateRelative:
		if d.offset < 0 {
			return strconv.Itoa(d.offset), nil
		}
	}
	return "", malformed(msgInvalidDate)
}
