package matcher

import (
	"testing"

	"github.com/member-matcher/app/config"
	"github.com/member-matcher/app/models"
	"github.com/member-matcher/internal/normalizer"
	"github.com/member-matcher/internal/similarity"
)

func testIndex(t *testing.T, records []models.SurveyRecord) *SurveyIndex {
	t.Helper()
	return NewSurveyIndex(records, normalizer.New())
}

func testReg(name, email string) *models.RegistrationRecord {
	n := normalizer.New()
	return &models.RegistrationRecord{
		Name:            name,
		Email:           email,
		NormalizedName:  n.NormalizeName(name),
		NormalizedEmail: n.NormalizeEmail(email),
		Match:           models.NoMatch(),
	}
}

func TestPartialNameStrategy(t *testing.T) {
	idx := testIndex(t, []models.SurveyRecord{
		{Name: "John Smith", Email: "john@upei.ca", Status: models.StatusStillPresent},
	})
	s := &partialNameStrategy{scorer: similarity.NewScorer(0), threshold: 75}

	res, ok := s.Attempt(testReg("John Michael Smith", ""), idx)
	if !ok {
		t.Fatal("first+last reduction should match the full survey name")
	}
	if res.Method != models.MethodPartialName || res.Confidence != 100 {
		t.Errorf("got %+v", res)
	}
	if res.Status != models.StatusStillPresent {
		t.Errorf("status = %v", res.Status)
	}

	if _, ok := s.Attempt(testReg("Madonna", ""), idx); ok {
		t.Error("single-token names must be skipped")
	}
	if _, ok := s.Attempt(testReg("Wendy Tucker", ""), idx); ok {
		t.Error("dissimilar name must not match")
	}
}

func TestPhoneticStrategy(t *testing.T) {
	idx := testIndex(t, []models.SurveyRecord{
		{Name: "John Smith", Email: "john@upei.ca", Status: models.StatusNoLongerPresent},
	})
	s := &phoneticStrategy{scorer: similarity.NewScorer(0), threshold: 85, minSkeletonLen: 3}

	// "jon smith" and "john smith" differ only in a vowel-adjacent letter;
	// their skeletons "jn smth" and "jhn smth" score 88.
	res, ok := s.Attempt(testReg("Jon Smith", ""), idx)
	if !ok {
		t.Fatal("similar skeletons should match")
	}
	if res.Method != models.MethodPhonetic || res.Confidence != 88 {
		t.Errorf("got %+v", res)
	}

	// Short skeletons are too ambiguous to compare.
	if _, ok := s.Attempt(testReg("Io A", ""), idx); ok {
		t.Error("skeleton at or below the minimum length must be skipped")
	}
}

func TestEmailUsernameStrategy(t *testing.T) {
	idx := testIndex(t, []models.SurveyRecord{
		{Name: "Jonathan Smith", Email: "j.smith@upei.ca", Status: models.StatusStillPresent},
	})
	s := &emailUsernameStrategy{scorer: similarity.NewScorer(0), threshold: 75}

	// Local parts "jsmith" vs "j.smith" score 86.
	res, ok := s.Attempt(testReg("Different Name", "jsmith@gmail.com"), idx)
	if !ok {
		t.Fatal("similar local parts should match")
	}
	if res.Method != models.MethodEmailUsername || res.Confidence != 86 {
		t.Errorf("got %+v", res)
	}

	if _, ok := s.Attempt(testReg("No Email", ""), idx); ok {
		t.Error("registration without an email must be skipped")
	}
	if _, ok := s.Attempt(testReg("Bad Email", "not-an-email"), idx); ok {
		t.Error("malformed email has no local part and must be skipped")
	}
}

func TestNameVariantStrategy(t *testing.T) {
	idx := testIndex(t, []models.SurveyRecord{
		{Name: "William Turner", Email: "wturner@upei.ca", Status: models.StatusNoLongerPresent},
	})
	s := &nameVariantStrategy{scorer: similarity.NewScorer(0), threshold: 80}

	res, ok := s.Attempt(testReg("Bill Turner", ""), idx)
	if !ok {
		t.Fatal("nickname variant should match the canonical survey name")
	}
	if res.Method != models.MethodNameVariant || res.Confidence != 100 {
		t.Errorf("got %+v", res)
	}

	if _, ok := s.Attempt(testReg("Cher", ""), idx); ok {
		t.Error("single-token names generate no variants")
	}
}

func TestStrategyOrder(t *testing.T) {
	cfg := config.Default().Matcher
	strategies := newStrategies(similarity.NewScorer(0), cfg)

	want := []models.MatchMethod{
		models.MethodPartialName,
		models.MethodPhonetic,
		models.MethodEmailUsername,
		models.MethodNameVariant,
	}
	if len(strategies) != len(want) {
		t.Fatalf("got %d strategies, want %d", len(strategies), len(want))
	}
	for i, s := range strategies {
		if s.Method() != want[i] {
			t.Errorf("strategy %d = %v, want %v", i, s.Method(), want[i])
		}
	}
}
