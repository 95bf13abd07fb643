package core

import "fmt"

// Summary is the income/expense balance over a set of records.
type Summary struct {
	Income  Money
	Expense Money
	Balance Money
	// Ratio is Balance/Income, or 0 when there is no income.
	Ratio float64
}

// CategoryAmount is one row of a month report.
type CategoryAmount struct {
	Category Category
	Amount   Money
	Share    float64
}

// Report is the per-category breakdown of one month.
type Report struct {
	Month      MonthKey
	Total      Money
	ByCategory []CategoryAmount
}

// Summarize totals income and expense. Records of unknown kind are ignored.
func Summarize(records []Record) Summary {
	var s Summary
	for _, r := range records {
		switch r.Kind {
		case KindIncome:
			s.Income = s.Income.Add(r.Value())
		case KindExpense:
			s.Expense = s.Expense.Add(r.Value())
		}
	}
	s.Balance = s.Income.Sub(s.Expense)
	if !s.Income.IsZero() {
		s.Ratio = float64(s.Balance.Cents) / float64(s.Income.Cents)
	}
	return s
}

// Label renders the balance line, e.g. "Balance: $2665 / $2700".
func (s Summary) Label() string {
	return fmt.Sprintf("Balance: $%s / $%s", s.Balance, s.Income)
}

// CategoryTotals sums record values per category for the given month. The
// result always holds one entry per reportable category.
func CategoryTotals(records []Record, month MonthKey) map[Category]Money {
	totals := make(map[Category]Money, len(reportCategories))
	for _, c := range reportCategories {
		totals[c] = Money{}
	}
	for _, r := range records {
		if !month.Contains(r.Date) {
			continue
		}
		if _, ok := totals[r.Category]; !ok {
			continue
		}
		totals[r.Category] = totals[r.Category].Add(r.Value())
	}
	return totals
}

// MonthReport orders CategoryTotals by category and adds each category's share of the total.
func MonthReport(records []Record, month MonthKey) Report {
	totals := CategoryTotals(records, month)
	rep := Report{Month: month, ByCategory: make([]CategoryAmount, 0, len(reportCategories))}
	for _, c := range reportCategories {
		rep.Total = rep.Total.Add(totals[c])
	}
	for _, c := range reportCategories {
		row := CategoryAmount{Category: c, Amount: totals[c]}
		if !rep.Total.IsZero() {
			row.Share = float64(row.Amount.Cents) / float64(rep.Total.Cents)
		}
		rep.ByCategory = append(rep.ByCategory, row)
	}
	return rep
}
