// Package pagination implements the list contract shared by every list
// endpoint: when the caller supplies page or limit the result is wrapped as
// {data, meta}, otherwise the bare array is returned.
package pagination

import (
	"bytes"
	"encoding/json"

	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Query is embedded into gin query structs.
type Query struct {
	Page  *int `form:"page"  binding:"omitempty,min=1"`
	Limit *int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// Params resolves the query into concrete paging parameters.
func (q Query) Params() Params {
	if q.Page == nil && q.Limit == nil {
		return All()
	}
	p := Params{Page: DefaultPage, Limit: DefaultLimit, Enabled: true}
	if q.Page != nil && *q.Page > 0 {
		p.Page = *q.Page
	}
	if q.Limit != nil && *q.Limit > 0 {
		p.Limit = min(*q.Limit, MaxLimit)
	}
	return p
}

type Params struct {
	Page    int
	Limit   int
	Enabled bool
}

// All disables paging.
func All() Params { return Params{} }

// New returns enabled paging parameters.
func New(page, limit int) Params {
	return Query{Page: &page, Limit: &limit}.Params()
}

func (p Params) Offset() int {
	if !p.Enabled {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Scope applies offset/limit to q when paging is enabled.
func (p Params) Scope(q *gorm.DB) *gorm.DB {
	if !p.Enabled {
		return q
	}
	return q.Offset(p.Offset()).Limit(p.Limit)
}

type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// Result serializes as a bare array when Meta is nil.
type Result[T any] struct {
	Data []T
	Meta *Meta
}

func NewResult[T any](items []T, total int64, p Params) Result[T] {
	if items == nil {
		items = []T{}
	}
	if !p.Enabled {
		return Result[T]{Data: items}
	}
	pages := 0
	if p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Result[T]{
		Data: items,
		Meta: &Meta{Page: p.Page, Limit: p.Limit, Total: total, TotalPages: pages},
	}
}

// Map converts the items while keeping the paging metadata.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	out := make([]U, 0, len(r.Data))
	for _, v := range r.Data {
		out = append(out, fn(v))
	}
	return Result[U]{Data: out, Meta: r.Meta}
}

type envelope[T any] struct {
	Data []T  `json:"data"`
	Meta *Meta `json:"meta"`
}

func (r Result[T]) MarshalJSON() ([]byte, error) {
	data := r.Data
	if data == nil {
		data = []T{}
	}
	if r.Meta == nil {
		return json.Marshal(data)
	}
	return json.Marshal(envelope[T]{Data: data, Meta: r.Meta})
}

func (r *Result[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		r.Meta = nil
		return json.Unmarshal(b, &r.Data)
	}
	var env envelope[T]
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	r.Data, r.Meta = env.Data, env.Meta
	return nil
}
