package core

import "testing"

func sampleRecords() []Record {
	return []Record{
		{ID: "a", Kind: KindExpense, Date: NewDate(2023, 12, 13), Note: "Café latte", Amount: "35", Category: CategoryFood},
		{ID: "b", Kind: KindIncome, Date: NewDate(2023, 12, 1), Note: "December salary", Amount: "2700", Category: CategorySalary},
		{ID: "c", Kind: KindExpense, Date: NewDate(2023, 11, 20), Note: "", Amount: "abc", Category: CategoryClothes},
		{ID: "d", Kind: KindUnknown, Date: NewDate(2023, 12, 2), Note: "mystery", Amount: "10", Category: CategoryFood},
	}
}

func ids(records []Record) string {
	s := ""
	for _, r := range records {
		s += r.ID
	}
	return s
}

func TestFilterByKind(t *testing.T) {
	recs := sampleRecords()
	if got := ids(FilterByKind(recs, FilterAll)); got != "abcd" {
		t.Fatalf("all: got %q", got)
	}
	if got := ids(FilterByKind(recs, FilterExpense)); got != "ac" {
		t.Fatalf("expense: got %q", got)
	}
	if got := ids(FilterByKind(recs, FilterIncome)); got != "b" {
		t.Fatalf("income: got %q", got)
	}
	for _, r := range FilterByKind(recs, FilterIncome) {
		if r.Kind != KindIncome {
			t.Fatalf("unexpected kind %v", r.Kind)
		}
	}
}

func TestFilterByNote(t *testing.T) {
	recs := sampleRecords()
	cases := []struct {
		query string
		want  string
	}{
		{"", "abcd"},
		{"cafe", "a"},
		{"CAFÉ", "a"},
		{"salary", "b"},
		{"zzz", ""},
		{" ", "ab"}, // whitespace is a real query and empty notes never match
	}
	for _, tc := range cases {
		if got := ids(FilterByNote(recs, tc.query)); got != tc.want {
			t.Fatalf("%q: got %q want %q", tc.query, got, tc.want)
		}
	}
}

func TestSearchAppliesKindFirst(t *testing.T) {
	recs := sampleRecords()
	if got := ids(Search(recs, FilterIncome, "latte")); got != "" {
		t.Fatalf("got %q", got)
	}
	if got := ids(Search(recs, FilterExpense, "latte")); got != "a" {
		t.Fatalf("got %q", got)
	}
	if got := ids(Search(recs, FilterAll, "")); got != "abcd" {
		t.Fatalf("got %q", got)
	}
}

func TestSortByDateDesc(t *testing.T) {
	recs := []Record{
		{ID: "old", Date: NewDate(2023, 1, 1)},
		{ID: "none"},
		{ID: "new", Date: NewDate(2023, 12, 31)},
		{ID: "mid", Date: NewDate(2023, 6, 1)},
		{ID: "none2"},
	}
	SortByDateDesc(recs)
	want := []string{"new", "mid", "old", "none", "none2"}
	for i, id := range want {
		if recs[i].ID != id {
			t.Fatalf("position %d: got %s want %s", i, recs[i].ID, id)
		}
	}
}
