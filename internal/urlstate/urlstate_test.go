package urlstate

import (
	"testing"

	"dbdeck/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestParseAndEncode(t *testing.T) {
	s, err := Parse("filter=age:eq:30&filter=name:like:%25bo%25&sort=name:asc&view=grid")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p := s.Read()
	if diff := cmp.Diff([]string{"age:eq:30", "name:like:%bo%"}, p.Filter); diff != "" {
		t.Errorf("filters (-want +got):\n%s", diff)
	}
	if got := p.Extra.Get("view"); got != "grid" {
		t.Errorf("extra view = %q", got)
	}

	round, err := Parse(s.Encode())
	if err != nil {
		t.Fatalf("Parse(Encode): %v", err)
	}
	if diff := cmp.Diff(p, round.Read(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestRemoveColumnKeepsOthers(t *testing.T) {
	s := New()
	s.AddFilter(domain.Filter{Column: "age", Operator: domain.OpEqual, Value: "30"})
	s.AddFilter(domain.Filter{Column: "status", Operator: domain.OpEqual, Value: "active"})
	s.SetSort(domain.Sort{Column: "age"})

	s.RemoveColumn("age")

	p := s.Read()
	if diff := cmp.Diff([]string{"status:eq:active"}, p.Filter); diff != "" {
		t.Errorf("filters (-want +got):\n%s", diff)
	}
	if len(p.Sort) != 0 {
		t.Errorf("expected sort on deleted column removed, got %v", p.Sort)
	}
}

func TestReadReturnsCopy(t *testing.T) {
	s := New()
	s.AddFilter(domain.Filter{Column: "a", Operator: domain.OpIs, Value: "null"})
	p := s.Read()
	p.Filter[0] = "mutated"
	if got := s.Read().Filter[0]; got != "a:is:null" {
		t.Errorf("store mutated through snapshot: %q", got)
	}
	s.ClearFilters()
	if got := s.Read().Filters(); len(got) != 0 {
		t.Errorf("expected no filters, got %v", got)
	}
}
