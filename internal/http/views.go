package http

import "moneynote/internal/core"

// CategoryView is the JSON form of a category.
type CategoryView struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Glyph string `json:"glyph"`
}

// RecordView is the JSON form of a record. Amount is the stored text and
// Value its parsed worth.
type RecordView struct {
	ID       string        `json:"id"`
	Kind     string        `json:"kind"`
	Date     string        `json:"date"`
	Note     string        `json:"note"`
	Amount   string        `json:"amount"`
	Value    string        `json:"value"`
	Category *CategoryView `json:"category,omitempty"`
}

type recordList struct {
	Records []RecordView `json:"records"`
	Count   int          `json:"count"`
}

type summaryView struct {
	Kind    string  `json:"kind"`
	Income  string  `json:"income"`
	Expense string  `json:"expense"`
	Balance string  `json:"balance"`
	Ratio   float64 `json:"ratio"`
	Label   string  `json:"label"`
}

type reportRow struct {
	Category CategoryView `json:"category"`
	Amount   string       `json:"amount"`
	Share    float64      `json:"share"`
}

type reportView struct {
	Month      string      `json:"month"`
	Kind       string      `json:"kind"`
	Total      string      `json:"total"`
	ByCategory []reportRow `json:"byCategory"`
}

func categoryView(c core.Category) CategoryView {
	return CategoryView{Slug: c.Slug(), Name: c.Name(), Glyph: c.Glyph()}
}

func recordView(r core.Record) RecordView {
	v := RecordView{
		ID:     r.ID,
		Kind:   r.Kind.Label(),
		Date:   r.Date.String(),
		Note:   r.Note,
		Amount: r.Amount,
		Value:  r.Value().String(),
	}
	if r.Category.Valid() {
		cv := categoryView(r.Category)
		v.Category = &cv
	}
	return v
}

func recordListView(recs []core.Record) recordList {
	out := recordList{Records: make([]RecordView, 0, len(recs)), Count: len(recs)}
	for _, r := range recs {
		out.Records = append(out.Records, recordView(r))
	}
	return out
}

func newSummaryView(kind core.KindFilter, s core.Summary) summaryView {
	return summaryView{
		Kind:    kind.String(),
		Income:  s.Income.String(),
		Expense: s.Expense.String(),
		Balance: s.Balance.String(),
		Ratio:   s.Ratio,
		Label:   s.Label(),
	}
}

func newReportView(kind core.KindFilter, rep core.Report) reportView {
	v := reportView{
		Month:      rep.Month.String(),
		Kind:       kind.String(),
		Total:      rep.Total.String(),
		ByCategory: make([]reportRow, 0, len(rep.ByCategory)),
	}
	for _, row := range rep.ByCategory {
		v.ByCategory = append(v.ByCategory, reportRow{
			Category: categoryView(row.Category),
			Amount:   row.Amount.String(),
			Share:    row.Share,
		})
	}
	return v
}
