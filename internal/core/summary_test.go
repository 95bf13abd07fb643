package core

import (
	"math"
	"testing"
)

func TestSummarizeBalance(t *testing.T) {
	recs := []Record{
		{Kind: KindIncome, Amount: "2700"},
		{Kind: KindExpense, Amount: "35"},
	}
	s := Summarize(recs)
	if s.Balance.Cents != 266500 {
		t.Fatalf("balance: got %v", s.Balance)
	}
	if math.Abs(s.Ratio-0.98703) > 1e-4 {
		t.Fatalf("ratio: got %f", s.Ratio)
	}
	if got := s.Label(); got != "Balance: $2665 / $2700" {
		t.Fatalf("label: got %q", got)
	}
}

func TestSummarizeZeroIncome(t *testing.T) {
	s := Summarize([]Record{{Kind: KindExpense, Amount: "10"}})
	if s.Ratio != 0 {
		t.Fatalf("expected zero ratio, got %f", s.Ratio)
	}
	if s.Balance.Cents != -1000 {
		t.Fatalf("balance: got %v", s.Balance)
	}
	empty := Summarize(nil)
	if empty.Ratio != 0 || !empty.Balance.IsZero() {
		t.Fatalf("empty summary: %+v", empty)
	}
}

func TestSummarizeIgnoresUnparseable(t *testing.T) {
	s := Summarize([]Record{
		{Kind: KindIncome, Amount: "100"},
		{Kind: KindExpense, Amount: "abc"},
		{Kind: KindUnknown, Amount: "50"},
	})
	if s.Expense.Cents != 0 || s.Income.Cents != 10000 {
		t.Fatalf("got %+v", s)
	}
}

func TestCategoryTotals(t *testing.T) {
	dec := MonthKey{Year: 2023, Month: 12}
	recs := []Record{
		{Kind: KindExpense, Date: NewDate(2023, 12, 13), Amount: "35", Category: CategoryFood},
		{Kind: KindExpense, Date: NewDate(2023, 12, 14), Amount: "abc", Category: CategoryFood},
		{Kind: KindExpense, Date: NewDate(2023, 12, 15), Amount: "12.5", Category: CategoryFood},
		{Kind: KindExpense, Date: NewDate(2023, 11, 15), Amount: "99", Category: CategoryFood},
		{Kind: KindExpense, Amount: "7", Category: CategoryClothes},
		{Kind: KindExpense, Date: NewDate(2023, 12, 1), Amount: "5", Category: CategoryUnknown},
	}
	totals := CategoryTotals(recs, dec)
	if len(totals) != 11 {
		t.Fatalf("expected 11 keys, got %d", len(totals))
	}
	if totals[CategoryFood].Cents != 4750 {
		t.Fatalf("food: got %v", totals[CategoryFood])
	}
	for c, m := range totals {
		if m.Cents < 0 {
			t.Fatalf("%v negative", c)
		}
		if c != CategoryFood && !m.IsZero() {
			t.Fatalf("%v should be zero, got %v", c, m)
		}
	}
	if len(CategoryTotals(nil, dec)) != 11 {
		t.Fatalf("empty input must still yield 11 keys")
	}
}

func TestMonthReport(t *testing.T) {
	dec := MonthKey{Year: 2023, Month: 12}
	recs := []Record{
		{Date: NewDate(2023, 12, 1), Amount: "30", Category: CategoryFood},
		{Date: NewDate(2023, 12, 2), Amount: "10", Category: CategoryHousingExpense},
	}
	rep := MonthReport(recs, dec)
	if rep.Total.Cents != 4000 {
		t.Fatalf("total: got %v", rep.Total)
	}
	if len(rep.ByCategory) != 11 {
		t.Fatalf("rows: got %d", len(rep.ByCategory))
	}
	if rep.ByCategory[0].Category != CategoryFood || rep.ByCategory[0].Share != 0.75 {
		t.Fatalf("first row: %+v", rep.ByCategory[0])
	}
	if last := rep.ByCategory[10]; last.Category != CategoryHousingExpense || last.Share != 0.25 {
		t.Fatalf("last row: %+v", last)
	}
	if empty := MonthReport(nil, dec); empty.ByCategory[0].Share != 0 {
		t.Fatalf("empty report share should be zero")
	}
}

func TestTotalsWithHugeAmounts(t *testing.T) {
	dec := MonthKey{Year: 2023, Month: 12}
	recs := []Record{
		{Kind: KindExpense, Date: NewDate(2023, 12, 1), Amount: "90000000000000000", Category: CategoryFood},
		{Kind: KindExpense, Date: NewDate(2023, 12, 2), Amount: "90000000000000000", Category: CategoryFood},
		{Kind: KindExpense, Date: NewDate(2023, 12, 3), Amount: "1000000000000", Category: CategoryFood},
	}
	totals := CategoryTotals(recs, dec)
	if totals[CategoryFood].Cents != 100000000000000 {
		t.Fatalf("food: got %v", totals[CategoryFood])
	}

	// enough capped amounts to exceed int64 cents
	many := make([]Record, 100000)
	for i := range many {
		many[i] = Record{Kind: KindExpense, Date: NewDate(2023, 12, 1), Amount: "1000000000000", Category: CategoryFood}
	}
	totals = CategoryTotals(many, dec)
	if totals[CategoryFood].Cents != math.MaxInt64 {
		t.Fatalf("food should saturate, got %d", totals[CategoryFood].Cents)
	}
	s := Summarize(many)
	if s.Expense.Cents != math.MaxInt64 || s.Balance.Cents != -math.MaxInt64 {
		t.Fatalf("summary: %+v", s)
	}
	rep := MonthReport(many, dec)
	if rep.Total.Cents < 0 || rep.ByCategory[0].Share != 1 {
		t.Fatalf("report: total=%d share=%f", rep.Total.Cents, rep.ByCategory[0].Share)
	}
}
