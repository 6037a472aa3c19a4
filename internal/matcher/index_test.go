package matcher

import (
	"testing"

	"github.com/member-matcher/app/models"
	"github.com/member-matcher/internal/normalizer"
)

func TestSurveyIndexLookups(t *testing.T) {
	idx := NewSurveyIndex([]models.SurveyRecord{
		{Name: "Alice Johnson", Email: "alice@upei.ca", Status: models.StatusStillPresent},
		{Name: "Bob Lee", Email: "bob@upei.ca", Status: models.StatusNoLongerPresent},
	}, normalizer.New())

	if st, ok := idx.LookupEmail("alice@upei.ca"); !ok || st != models.StatusStillPresent {
		t.Errorf("LookupEmail = %v, %v", st, ok)
	}
	if st, ok := idx.LookupName("bob lee"); !ok || st != models.StatusNoLongerPresent {
		t.Errorf("LookupName = %v, %v", st, ok)
	}
	if _, ok := idx.LookupEmail("nobody@upei.ca"); ok {
		t.Error("unknown email must not resolve")
	}
	if idx.Len() != 2 {
		t.Errorf("Len = %d, want 2", idx.Len())
	}
}

func TestSurveyIndexLastWriteWins(t *testing.T) {
	idx := NewSurveyIndex([]models.SurveyRecord{
		{Name: "Alice Johnson", Email: "alice@upei.ca", Status: models.StatusStillPresent},
		{Name: "Alice Johnson", Email: "alice@upei.ca", Status: models.StatusNoLongerPresent},
	}, normalizer.New())

	if st, _ := idx.LookupEmail("alice@upei.ca"); st != models.StatusNoLongerPresent {
		t.Errorf("duplicate email key should keep the later row, got %v", st)
	}
	if st, _ := idx.LookupName("alice johnson"); st != models.StatusNoLongerPresent {
		t.Errorf("duplicate name key should keep the later row, got %v", st)
	}
	// Both rows still appear in scan order for the fuzzy strategies.
	if idx.Len() != 2 {
		t.Errorf("Len = %d, want 2", idx.Len())
	}
}

func TestSurveyIndexEmptyKeysExcluded(t *testing.T) {
	idx := NewSurveyIndex([]models.SurveyRecord{
		{Name: "", Email: "", Status: models.StatusStillPresent},
	}, normalizer.New())

	if _, ok := idx.LookupEmail(""); ok {
		t.Error("empty email key must never resolve")
	}
	if _, ok := idx.LookupName(""); ok {
		t.Error("empty name key must never resolve")
	}
}

func TestSurveyIndexUsesPrecomputedKeys(t *testing.T) {
	idx := NewSurveyIndex([]models.SurveyRecord{
		{Name: "ignored", NormalizedName: "alice johnson", NormalizedEmail: "alice@upei.ca", Status: models.StatusStillPresent},
	}, normalizer.New())

	if _, ok := idx.LookupName("alice johnson"); !ok {
		t.Error("precomputed normalized name should be indexed as-is")
	}
}
