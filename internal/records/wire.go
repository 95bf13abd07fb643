package records

import (
	"bytes"
	"encoding/json"

	"moneynote/internal/core"
)

// Envelope is the list payload shared by the REST store and the seed file.
type Envelope struct {
	Records []WireRecord `json:"records"`
}

// WireRecord is one row as the tabular store sees it.
type WireRecord struct {
	ID     string `json:"id,omitempty"`
	Fields Fields `json:"fields"`
}

// Fields carries the column values. Every column is text on the wire.
type Fields struct {
	ExpenseIncome string     `json:"expenseIncome"`
	Date          string     `json:"date"`
	Note          string     `json:"note"`
	Amount        FlexString `json:"amount"`
	Category      string     `json:"category"`
}

// FlexString decodes from a JSON string or number. Tables edited by hand may
// hold the amount as a number column.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// ToRecord decodes a wire row. Unknown kinds, dates and categories decode to
// their zero values instead of failing.
func (w WireRecord) ToRecord() core.Record {
	return core.Record{
		ID:       w.ID,
		Kind:     core.KindFromLabel(w.Fields.ExpenseIncome),
		Date:     core.DateFromString(w.Fields.Date),
		Note:     w.Fields.Note,
		Amount:   string(w.Fields.Amount),
		Category: core.CategoryFromString(w.Fields.Category),
	}
}

// FromRecord encodes r for writing. Categories are written as slugs.
func FromRecord(r core.Record) WireRecord {
	return WireRecord{
		ID: r.ID,
		Fields: Fields{
			ExpenseIncome: r.Kind.Label(),
			Date:          r.Date.String(),
			Note:          r.Note,
			Amount:        FlexString(r.Amount),
			Category:      r.Category.Slug(),
		},
	}
}

// ToRecords decodes every row of the envelope.
func (e Envelope) ToRecords() []core.Record {
	out := make([]core.Record, 0, len(e.Records))
	for _, w := range e.Records {
		out = append(out, w.ToRecord())
	}
	return out
}
