package query

import (
	"net/url"
	"testing"
)

func TestParseSortField(t *testing.T) {
	cases := map[string]SortField{
		"id":         SortID,
		"name":       SortName,
		"firstname":  SortFirstname,
		"age":        SortAge,
		"email":      SortEmail,
		"filiere":    SortFiliere,
		"created_at": SortCreatedAt,
	}
	for token, want := range cases {
		if got := ParseSortField(token); got != want {
			t.Errorf("ParseSortField(%q) = %v, want %v", token, got, want)
		}
	}
}

func TestParseSortField_UnknownFallsBack(t *testing.T) {
	// Unknown tokens resolve to creation time, never an error.
	for _, token := range []string{"", "password", "id; DROP TABLE students", "NAME"} {
		if got := ParseSortField(token); got != SortCreatedAt {
			t.Errorf("ParseSortField(%q) = %v, want SortCreatedAt", token, got)
		}
	}
}

func TestSortFieldColumn(t *testing.T) {
	if got := SortFiliere.Column(); got != "filiere" {
		t.Errorf("SortFiliere.Column() = %q", got)
	}
	if got := SortField(999).Column(); got != "created_at" {
		t.Errorf("out-of-range field column = %q, want created_at", got)
	}
}

func TestParseSortOrder(t *testing.T) {
	// The "asc" token is recognized in any casing.
	for _, token := range []string{"asc", "ASC", "Asc", "aSc", "asC", "AsC", "aSC"} {
		if ParseSortOrder(token) != Ascending {
			t.Errorf("ParseSortOrder(%q) should be Ascending", token)
		}
	}
	// Everything else is descending, including empty and garbage.
	for _, token := range []string{"", "desc", "DESC", "up", "ascending"} {
		if ParseSortOrder(token) != Descending {
			t.Errorf("ParseSortOrder(%q) should be Descending", token)
		}
	}
}

func TestSortOrderKeyword(t *testing.T) {
	if Ascending.Keyword() != "ASC" || Descending.Keyword() != "DESC" {
		t.Error("Keyword() mismatch")
	}
}

func TestParseOptions_Defaults(t *testing.T) {
	opts := ParseOptions(url.Values{}, 0)

	if opts.Page != 1 {
		t.Errorf("default page = %d, want 1", opts.Page)
	}
	if opts.Limit != DefaultLimit {
		t.Errorf("default limit = %d, want %d", opts.Limit, DefaultLimit)
	}
	if opts.Sort != SortCreatedAt || opts.Order != Descending {
		t.Error("default sort should be created_at descending")
	}
}

func TestParseOptions_ClampsPage(t *testing.T) {
	for _, page := range []string{"0", "-3", "abc", ""} {
		values := url.Values{"page": {page}}
		opts := ParseOptions(values, 10)
		if opts.Page != 1 {
			t.Errorf("page=%q parsed to %d, want 1", page, opts.Page)
		}
		if opts.Offset() != 0 {
			t.Errorf("page=%q offset = %d, want 0", page, opts.Offset())
		}
	}
}

func TestParseOptions_Values(t *testing.T) {
	values := url.Values{
		"search":    {"dupont"},
		"filiere":   {"Info"},
		"sortBy":    {"age"},
		"sortOrder": {"asc"},
		"page":      {"3"},
		"limit":     {"25"},
	}
	opts := ParseOptions(values, 10)

	if opts.Search != "dupont" || opts.Filiere != "Info" {
		t.Errorf("predicate fields not carried: %+v", opts)
	}
	if opts.Sort != SortAge || opts.Order != Ascending {
		t.Errorf("sort fields not resolved: %+v", opts)
	}
	if opts.Page != 3 || opts.Limit != 25 {
		t.Errorf("paging fields not parsed: %+v", opts)
	}
	if opts.Offset() != 50 {
		t.Errorf("Offset() = %d, want 50", opts.Offset())
	}
}

func TestParseOptions_BadLimitUsesDefault(t *testing.T) {
	values := url.Values{"limit": {"-5"}}
	if opts := ParseOptions(values, 20); opts.Limit != 20 {
		t.Errorf("limit = %d, want configured default 20", opts.Limit)
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{42, 10, 5},
		{3, 1, 3},
		{5, 0, 0},
	}
	for _, c := range cases {
		if got := TotalPages(c.total, c.limit); got != c.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", c.total, c.limit, got, c.want)
		}
	}
}
