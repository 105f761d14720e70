package leads

import (
	"encoding/json"
	"testing"
)

func TestStatusUnmarshalRejectsUnknown(t *testing.T) {
	var s Status
	if err := json.Unmarshal([]byte(`"qualified"`), &s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != StatusQualified {
		t.Errorf("expected qualified, got %s", s)
	}

	if err := json.Unmarshal([]byte(`"escalated"`), &s); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestSourceUnmarshalRejectsUnknown(t *testing.T) {
	var s Source
	if err := json.Unmarshal([]byte(`"calendly"`), &s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != SourceCalendly {
		t.Errorf("expected calendly, got %s", s)
	}

	if err := json.Unmarshal([]byte(`"carrier_pigeon"`), &s); err == nil {
		t.Error("expected error for unknown source")
	}
}

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"new", "contacted", "qualified", "proposal_sent", "closed_won", "closed_lost"} {
		if _, err := ParseStatus(valid); err != nil {
			t.Errorf("expected %q to parse, got %v", valid, err)
		}
	}
	if _, err := ParseStatus("NEW"); err == nil {
		t.Error("status parsing should be case-sensitive")
	}
}

func TestUpdateRequestHasChanges(t *testing.T) {
	var req UpdateLeadRequest
	if req.HasChanges() {
		t.Error("empty request should report no changes")
	}

	notes := "followed up by phone"
	req.Notes = &notes
	if !req.HasChanges() {
		t.Error("request with notes should report changes")
	}
}

func TestListFilterNormalize(t *testing.T) {
	f := ListFilter{Skip: -5, Limit: 500}
	f.Normalize()
	if f.Skip != 0 {
		t.Errorf("expected skip 0, got %d", f.Skip)
	}
	if f.Limit != MaxPageSize {
		t.Errorf("expected limit capped at %d, got %d", MaxPageSize, f.Limit)
	}

	f = ListFilter{}
	f.Normalize()
	if f.Limit != 50 {
		t.Errorf("expected default limit 50, got %d", f.Limit)
	}
}
