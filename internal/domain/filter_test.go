package domain

import (
	"testing"

	appErrors "dbdeck/internal/errors"

	"github.com/google/go-cmp/cmp"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name    string
		param   string
		want    Filter
		wantErr bool
	}{
		{"simple", "age:eq:30", Filter{Column: "age", Operator: OpEqual, Value: "30"}, false},
		{"value with colons", "starts_at:gte:2024-01-01T10:00:00", Filter{Column: "starts_at", Operator: OpGreaterOrEqual, Value: "2024-01-01T10:00:00"}, false},
		{"empty value", "name:eq:", Filter{Column: "name", Operator: OpEqual, Value: ""}, false},
		{"missing value part", "name:is", Filter{Column: "name", Operator: OpIs, Value: ""}, false},
		{"operator case", "name:ILIKE:%bob%", Filter{Column: "name", Operator: OpILike, Value: "%bob%"}, false},
		{"unknown operator", "age:approx:30", Filter{}, true},
		{"missing operator", "age", Filter{}, true},
		{"missing column", ":eq:30", Filter{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFilter(tt.param)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.param)
				}
				if !appErrors.IsCode(err, appErrors.CodeValidation) {
					t.Errorf("expected validation code, got %q", appErrors.CodeOf(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseFilter mismatch (-want +got):\n%s", diff)
			}
			if got.Param() != tt.want.Param() {
				t.Errorf("Param() = %q", got.Param())
			}
		})
	}
}

func TestFormatFilterParamsDropsInvalid(t *testing.T) {
	got := FormatFilterParams([]string{"age:eq:30", "bogus", "status:neq:archived"})
	want := []Filter{
		{Column: "age", Operator: OpEqual, Value: "30"},
		{Column: "status", Operator: OpNotEqual, Value: "archived"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FormatFilterParams mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		param   string
		want    Sort
		wantErr bool
	}{
		{"name", Sort{Column: "name", Ascending: true}, false},
		{"name:asc", Sort{Column: "name", Ascending: true}, false},
		{"created_at:desc", Sort{Column: "created_at"}, false},
		{"name:sideways", Sort{}, true},
		{":desc", Sort{}, true},
	}
	for _, tt := range tests {
		got, err := ParseSort(tt.param)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseSort(%q) err = %v, wantErr %v", tt.param, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseSort(%q) = %+v, want %+v", tt.param, got, tt.want)
		}
	}
	if got := FormatSortParams([]string{"a:desc", ":x", "b"}); len(got) != 2 {
		t.Errorf("expected two valid sorts, got %+v", got)
	}
}

func TestWithoutColumn(t *testing.T) {
	params := []string{"age:eq:30", "name:like:%a%", "age:gt:10", "agent:eq:x"}
	got := WithoutColumn(params, "age")
	want := []string{"name:like:%a%", "agent:eq:x"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("WithoutColumn mismatch (-want +got):\n%s", diff)
	}
}

func TestInValues(t *testing.T) {
	f := Filter{Column: "id", Operator: OpIn, Value: " 1, 2,,3 "}
	if diff := cmp.Diff([]string{"1", "2", "3"}, f.InValues()); diff != "" {
		t.Errorf("InValues mismatch (-want +got):\n%s", diff)
	}
}

func TestColumnIDRoundTrip(t *testing.T) {
	id := ColumnID(16384, 3)
	tableID, pos, err := ParseColumnID(id)
	if err != nil {
		t.Fatalf("ParseColumnID(%q): %v", id, err)
	}
	if tableID != 16384 || pos != 3 {
		t.Errorf("got (%d, %d)", tableID, pos)
	}
	for _, bad := range []string{"", "abc", "1.x", "1.0", "x.1"} {
		if _, _, err := ParseColumnID(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestTableQualifiedName(t *testing.T) {
	if got := (Table{Schema: "public", Name: "users"}).QualifiedName(); got != "public.users" {
		t.Errorf("got %q", got)
	}
	if got := (Table{Name: "users"}).QualifiedName(); got != "users" {
		t.Errorf("got %q", got)
	}
	if !(Role{Name: "  "}).IsZero() {
		t.Error("blank role should be zero")
	}
}
