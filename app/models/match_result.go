package models

// MatchMethod identifies which strategy produced a match.
type MatchMethod string

const (
	MethodNone          MatchMethod = "none"
	MethodEmail         MatchMethod = "email"
	MethodNameExact     MatchMethod = "name_exact"
	MethodNameFuzzy     MatchMethod = "name_fuzzy"
	MethodPartialName   MatchMethod = "partial_name"
	MethodPhonetic      MatchMethod = "phonetic"
	MethodEmailUsername MatchMethod = "email_username"
	MethodNameVariant   MatchMethod = "name_variant"
)

// MatchResult is attached to a registration once per run. Invariant:
// Method == MethodNone iff Status == StatusUnknown iff Confidence == 0.
// A matched record is terminal; later strategies only see unmatched ones.
type MatchResult struct {
	Status     RetentionStatus `json:"status"`
	Method     MatchMethod     `json:"method"`
	Confidence int             `json:"confidence"` // 0-100
}

// NoMatch returns the zero result for an unresolved registration.
func NoMatch() MatchResult {
	return MatchResult{Status: StatusUnknown, Method: MethodNone, Confidence: 0}
}

// Matched reports whether the result carries a real correspondence.
func (r MatchResult) Matched() bool {
	return r.Method != MethodNone && r.Method != ""
}

// CandidateMatch is a scored but unadopted correspondence surfaced for human
// review. It never feeds back into a MatchResult.
type CandidateMatch struct {
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Status  RetentionStatus `json:"status"`
	Method  MatchMethod     `json:"method"`
	Score   int             `json:"score"`
	Variant string          `json:"variant,omitempty"` // populated by name-variant candidates
}
