// Package http serves the JSON API over the repository.
//
// This file holds the request decoding helpers shared by the handlers.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"moneynote/internal/core"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

// RequestBodyParser reads a body once and decodes it as JSON or as form data.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser reads the request body, up to maxBodyBytes.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{contentType: r.Header.Get("Content-Type")}
	if r.Body == nil {
		return p
	}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if p.err == nil && len(p.body) > maxBodyBytes {
		p.err = errors.New("request body too large")
	}
	return p
}

// Parse decodes the body. A body starting with '{' is JSON, anything else
// is treated as a url-encoded form.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true
	if p.err != nil {
		return p.err
	}

	trimmed := strings.TrimSpace(string(p.body))
	if trimmed == "" {
		p.formData = url.Values{}
		return nil
	}
	if strings.HasPrefix(trimmed, "{") || strings.Contains(p.contentType, "application/json") {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal([]byte(trimmed), &p.jsonData); err != nil {
			p.err = fmt.Errorf("invalid JSON body: %w", err)
			return p.err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(trimmed)
	return p.err
}

// Get returns a trimmed, sanitized value for key.
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// sanitizeInput trims whitespace and drops control characters other than
// tab and newlines.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// FieldError is a request value that failed validation.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// ParseRecordInput builds a record from the create body. Missing fields take
// the entry form defaults: today, Food and Expense.
func ParseRecordInput(p *RequestBodyParser) (core.Record, error) {
	rec := core.Record{
		Kind:     core.KindExpense,
		Date:     core.Today(),
		Category: core.CategoryFood,
		Note:     p.Get("note"),
	}

	if v := p.Get("kind"); v != "" {
		kind, err := core.ParseKind(v)
		if err != nil {
			return core.Record{}, &FieldError{Field: "kind", Err: err}
		}
		rec.Kind = kind
	}
	if v := p.Get("date"); v != "" {
		date, err := core.ParseDate(v)
		if err != nil {
			return core.Record{}, &FieldError{Field: "date", Err: err}
		}
		rec.Date = date
	}
	if v := p.Get("category"); v != "" {
		cat, ok := core.ParseCategory(v)
		if !ok {
			return core.Record{}, &FieldError{Field: "category", Err: fmt.Errorf("%w: %q", core.ErrInvalidCategory, v)}
		}
		rec.Category = cat
	}

	amount := p.Get("amount")
	if _, err := core.ParseDecimalToCents(amount); err != nil {
		return core.Record{}, &FieldError{Field: "amount", Err: err}
	}
	rec.Amount = amount

	if err := rec.Validate(); err != nil {
		return core.Record{}, &FieldError{Field: "record", Err: err}
	}
	return rec, nil
}

// ParseKindQuery reads the kind filter from the query string. Errors wrap
// core.ErrInvalidKind.
func ParseKindQuery(query url.Values) (core.KindFilter, error) {
	return core.ParseKindFilter(query.Get("kind"))
}

// ParseMonthPath reads the {year} and {month} path values. Errors wrap
// core.ErrInvalidMonth.
func ParseMonthPath(r *http.Request) (core.MonthKey, error) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		return core.MonthKey{}, fmt.Errorf("%w: year %q", core.ErrInvalidMonth, r.PathValue("year"))
	}
	month, err := strconv.Atoi(r.PathValue("month"))
	if err != nil {
		return core.MonthKey{}, fmt.Errorf("%w: %q", core.ErrInvalidMonth, r.PathValue("month"))
	}
	return core.NewMonthKey(year, month)
}
