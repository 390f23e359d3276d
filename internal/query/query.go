// Package query defines the listing contract of the student records
// store: which fields can be sorted on, in which direction, and how a
// raw query string becomes a safe, fully-resolved set of options.
//
// The sort field and direction are typed enumerations rather than raw
// strings. Anything the client sends that is not on the allow-list
// resolves to the default (creation time, descending) — never an error.
// Because ORDER BY columns come from the enum's Column method, user
// input can never reach the SQL text.
package query

import (
	"net/url"
	"strconv"
	"strings"
)

// SortField enumerates the columns a listing may be ordered by.
// The zero value is the default: creation time.
type SortField int

const (
	SortCreatedAt SortField = iota
	SortID
	SortName
	SortFirstname
	SortAge
	SortEmail
	SortFiliere
)

// SortOrder is the sort direction. The zero value is descending —
// newest records first, which is what the dashboard shows by default.
type SortOrder int

const (
	Descending SortOrder = iota
	Ascending
)

// DefaultLimit is the page size used when the caller configures none.
const DefaultLimit = 10

// ParseSortField maps a client-supplied sortBy token to a SortField.
// Unrecognized tokens fall back to SortCreatedAt; this is a silent
// fallback per the listing contract, not a validation failure.
func ParseSortField(s string) SortField {
	switch s {
	case "id":
		return SortID
	case "name":
		return SortName
	case "firstname":
		return SortFirstname
	case "age":
		return SortAge
	case "email":
		return SortEmail
	case "filiere":
		return SortFiliere
	case "created_at":
		return SortCreatedAt
	default:
		return SortCreatedAt
	}
}

// Column returns the SQL column name for the field. Only these literals
// can ever appear in an ORDER BY clause.
func (f SortField) Column() string {
	switch f {
	case SortID:
		return "id"
	case SortName:
		return "name"
	case SortFirstname:
		return "firstname"
	case SortAge:
		return "age"
	case SortEmail:
		return "email"
	case SortFiliere:
		return "filiere"
	default:
		return "created_at"
	}
}

// ParseSortOrder maps a client-supplied sortOrder token to a SortOrder.
// Only an "asc" token — in any casing — selects ascending; everything
// else, including the empty string, is descending.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(s, "asc") {
		return Ascending
	}
	return Descending
}

// Keyword returns the SQL direction keyword.
func (o SortOrder) Keyword() string {
	if o == Ascending {
		return "ASC"
	}
	return "DESC"
}

// Options is a fully-resolved listing request. Search matches as a
// substring against name, firstname, and email (a row matches if ANY of
// the three contains it); Filiere is an exact label match; empty
// strings disable each. Page is 1-based and always >= 1 after parsing.
type Options struct {
	Search  string
	Filiere string
	Sort    SortField
	Order   SortOrder
	Page    int
	Limit   int
}

// Offset is the number of rows to skip for the requested page.
// Never negative: Page is clamped to >= 1 at parse time.
func (o Options) Offset() int {
	return (o.Page - 1) * o.Limit
}

// ParseOptions builds Options from a request's query string.
//
//	search, filiere — passed through as-is
//	sortBy, sortOrder — allow-list resolved, silent fallback
//	page — 1-based; non-numeric or < 1 clamps to 1
//	limit — non-numeric or < 1 falls back to defaultLimit
//
// defaultLimit <= 0 selects DefaultLimit, so callers without a
// configured page size can pass 0.
func ParseOptions(values url.Values, defaultLimit int) Options {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}

	opts := Options{
		Search:  values.Get("search"),
		Filiere: values.Get("filiere"),
		Sort:    ParseSortField(values.Get("sortBy")),
		Order:   ParseSortOrder(values.Get("sortOrder")),
		Page:    1,
		Limit:   defaultLimit,
	}

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		opts.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit > 0 {
		opts.Limit = limit
	}

	return opts
}

// TotalPages computes ceil(total/limit) for pagination metadata.
// Zero matching rows means zero pages.
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return int(pages)
}
