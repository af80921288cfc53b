package date

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Period is a calendar period used to bucket dates.
type Period int

func (p Period) String() string {
	switch p {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	case Yearly:
		return "yearly"
	default:
		panic(fmt.Sprintf("unknown period %d", p))
	}
}

const (
	Daily Period = iota
	Weekly
	Monthly
	Quarterly
	Yearly
)

// StartOf returns the date of begining of a given period
func (d Date) StartOf(period Period) Date {
	switch period {
	case Daily:
		return d
	case Weekly:
		weekday := d.Weekday() // time.Sunday = 0, ..., time.Saturday = 6
		offset := int(weekday - time.Monday)
		for offset < 0 {
			offset += 7
		}
		return d.Add(-offset)
	case Monthly:
		return New(d.Year(), d.Month(), 1)
	case Quarterly:
		return New(d.Year(), time.Month(d.Quarter()*3-2), 1)
	case Yearly:
		return New(d.Year(), time.January, 1)
	default:
		panic("unknown period")
	}
}

// EndOf returns the date of end of a given period
func (d Date) EndOf(period Period) Date {
	switch period {
	case Daily:
		return d
	case Weekly:
		return d.StartOf(Weekly).Add(6)
	case Monthly:
		return New(d.Year(), d.Month()+1, 0)
	case Quarterly:
		return New(d.Year(), time.Month(d.Quarter()*3)+1, 0) // last is next month on the day 0
	case Yearly:
		return New(d.Year()+1, time.January, 0)
	default:
		panic("unknown period")
	}
}

// Quarter returns the quarter number of d, in [1..4].
func (d Date) Quarter() int { return (int(d.Month())-1)/3 + 1 }

// Label returns the bucket label of the period containing d:
// "MM/YYYY" for months, "Qn YYYY" for quarters and "YYYY" for years.
// Other periods use the ISO representation of their first day.
func (d Date) Label(p Period) string {
	switch p {
	case Monthly:
		return fmt.Sprintf("%02d/%04d", d.Month(), d.Year())
	case Quarterly:
		return fmt.Sprintf("Q%d %04d", d.Quarter(), d.Year())
	case Yearly:
		return fmt.Sprintf("%04d", d.Year())
	default:
		return d.StartOf(p).String()
	}
}

// ParseLabel returns the first day of the period designated by a label produced by [Date.Label].
func ParseLabel(label string) (Date, Period, error) {
	label = strings.TrimSpace(label)
	switch {
	case strings.HasPrefix(label, "Q"):
		q, y, ok := strings.Cut(label[1:], " ")
		if !ok {
			break
		}
		qn, err1 := strconv.Atoi(q)
		yn, err2 := strconv.Atoi(y)
		if err1 != nil || err2 != nil || qn < 1 || qn > 4 {
			break
		}
		return New(yn, time.Month(qn*3-2), 1), Quarterly, nil
	case strings.Contains(label, "/"):
		m, y, _ := strings.Cut(label, "/")
		mn, err1 := strconv.Atoi(m)
		yn, err2 := strconv.Atoi(y)
		if err1 != nil || err2 != nil || mn < 1 || mn > 12 {
			break
		}
		return New(yn, time.Month(mn), 1), Monthly, nil
	default:
		if yn, err := strconv.Atoi(label); err == nil {
			return New(yn, time.January, 1), Yearly, nil
		}
		if d, err := Parse(label); err == nil {
			return d, Daily, nil
		}
	}
	return Date{}, Daily, fmt.Errorf("invalid period label %q", label)
}

// ComparePeriodLabels orders period labels chronologically (year first, then the period number).
// Unparseable labels sort after valid ones, lexically among themselves.
func ComparePeriodLabels(a, b string) int {
	da, _, errA := ParseLabel(a)
	db, _, errB := ParseLabel(b)
	switch {
	case errA != nil && errB != nil:
		return strings.Compare(a, b)
	case errA != nil:
		return 1
	case errB != nil:
		return -1
	}
	return da.Compare(db)
}
