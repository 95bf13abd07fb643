package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	KindUnknown Kind = iota
	KindExpense
	KindIncome
)

const (
	FilterAll KindFilter = iota
	FilterExpense
	FilterIncome
)

// Layouts used for the record date string.
const (
	DateLayout     = "2006/01/02 Mon"
	dateLayoutDay  = "2006/01/02"
	dateLayoutISO  = "2006-01-02"
	MonthKeyLayout = "2006/01"
)

type (
	Kind       int
	KindFilter int

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// MonthKey buckets records for reporting.
	MonthKey struct {
		Year  int
		Month time.Month
	}

	Record struct {
		ID       string
		Kind     Kind
		Date     Date
		Note     string
		Amount   string // as entered; see Value
		Category Category
	}
)

var (
	ErrInvalidKind     = errors.New("invalid kind")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidMonth    = errors.New("invalid month")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCategory = errors.New("invalid category")
)

// Label returns the wire label of the kind.
func (k Kind) Label() string {
	switch k {
	case KindExpense:
		return "Expense"
	case KindIncome:
		return "Income"
	default:
		return ""
	}
}

func (k Kind) String() string {
	if l := k.Label(); l != "" {
		return l
	}
	return "Unknown"
}

// ParseKind accepts the wire labels case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "expense":
		return KindExpense, nil
	case "income":
		return KindIncome, nil
	default:
		return KindUnknown, fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// KindFromLabel never fails; unknown labels decode to KindUnknown.
func KindFromLabel(s string) Kind {
	k, _ := ParseKind(s)
	return k
}

func (f KindFilter) String() string {
	switch f {
	case FilterExpense:
		return "expense"
	case FilterIncome:
		return "income"
	default:
		return "all"
	}
}

// Matches reports whether a record of kind k passes the filter.
func (f KindFilter) Matches(k Kind) bool {
	switch f {
	case FilterExpense:
		return k == KindExpense
	case FilterIncome:
		return k == KindIncome
	default:
		return true
	}
}

// ParseKindFilter maps "", "all", "expense" and "income" to a filter.
func ParseKindFilter(s string) (KindFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "expense":
		return FilterExpense, nil
	case "income":
		return FilterIncome, nil
	default:
		return FilterAll, fmt.Errorf("%w filter: %q", ErrInvalidKind, s)
	}
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current local date.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate reads the leading yyyy/mm/dd of a record date string, so both
// "2023/12/13 Wed" and "2023/12/13, Wed" decode. ISO yyyy-mm-dd is accepted too.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) < len(dateLayoutDay) {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	head := s[:len(dateLayoutDay)]
	for _, layout := range []string{dateLayoutDay, dateLayoutISO} {
		if t, err := time.Parse(layout, head); err == nil {
			return Date{Time: t}, nil
		}
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// DateFromString never fails; unparseable input yields the zero Date.
func DateFromString(s string) Date {
	d, _ := ParseDate(s)
	return d
}

// String renders the display form, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MonthKey returns the month the date falls in.
func (d Date) MonthKey() MonthKey {
	return MonthKey{Year: d.Year(), Month: d.Time.Month()}
}

// NewMonthKey validates the month range.
func NewMonthKey(year, month int) (MonthKey, error) {
	if month < 1 || month > 12 {
		return MonthKey{}, fmt.Errorf("%w: %d", ErrInvalidMonth, month)
	}
	if year < 1 {
		return MonthKey{}, fmt.Errorf("%w: year %d", ErrInvalidMonth, year)
	}
	return MonthKey{Year: year, Month: time.Month(month)}, nil
}

// ParseMonthKey accepts yyyy/mm and yyyy-mm.
func ParseMonthKey(s string) (MonthKey, error) {
	s = strings.TrimSpace(s)
	sep := strings.IndexAny(s, "/-")
	if sep <= 0 {
		return MonthKey{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	y, err := strconv.Atoi(s[:sep])
	if err != nil {
		return MonthKey{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	m, err := strconv.Atoi(s[sep+1:])
	if err != nil {
		return MonthKey{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return NewMonthKey(y, m)
}

// CurrentMonth returns the month key for today.
func CurrentMonth() MonthKey {
	return Today().MonthKey()
}

func (m MonthKey) String() string {
	return fmt.Sprintf("%04d/%02d", m.Year, int(m.Month))
}

// Contains reports whether d falls in the month. The zero date belongs to no month.
func (m MonthKey) Contains(d Date) bool {
	if d.IsZero() {
		return false
	}
	return d.Year() == m.Year && d.Time.Month() == m.Month
}

// Value parses the amount; unparseable amounts are worth zero.
func (r Record) Value() Money {
	return ParseAmount(r.Amount)
}

// Validate checks the fields a store needs to persist a new record.
// The amount is not checked.
func (r Record) Validate() error {
	if r.Kind != KindExpense && r.Kind != KindIncome {
		return ErrInvalidKind
	}
	if r.Date.IsZero() {
		return ErrInvalidDate
	}
	if !r.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}
