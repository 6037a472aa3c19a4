package models

import "testing"

func TestParseRetentionStatus(t *testing.T) {
	tests := []struct {
		in   string
		want RetentionStatus
	}{
		{"Still on PEI", StatusStillPresent},
		{"still here", StatusStillPresent},
		{"No longer on PEI", StatusNoLongerPresent},
		{"Left the province", StatusNoLongerPresent},
		{"Moved to Ontario", StatusNoLongerPresent},
		{"Inconclusive", StatusInconclusive},
		{"unsure", StatusInconclusive},
		{"Unclear - no response", StatusInconclusive},
		{"some other answer", StatusInconclusive},
		{"", StatusInconclusive},
		{"   ", StatusInconclusive},
	}
	for _, tt := range tests {
		if got := ParseRetentionStatus(tt.in); got != tt.want {
			t.Errorf("ParseRetentionStatus(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClassifyGraduation(t *testing.T) {
	tests := []struct {
		in   string
		want GraduationStatus
	}{
		{"Graduate", GraduationGraduate},
		{"graduated", GraduationGraduate},
		{"Current Student", GraduationCurrent},
		{"  current   student ", GraduationCurrent},
		{"Student", GraduationCurrent},
		{"alumni maybe", GraduationUnknown},
		{"", GraduationUnknown},
	}
	for _, tt := range tests {
		if got := ClassifyGraduation(tt.in); got != tt.want {
			t.Errorf("ClassifyGraduation(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMatchResultInvariant(t *testing.T) {
	r := NoMatch()
	if r.Matched() {
		t.Error("NoMatch must not report matched")
	}
	if r.Status != StatusUnknown || r.Method != MethodNone || r.Confidence != 0 {
		t.Errorf("NoMatch = %+v", r)
	}

	m := MatchResult{Status: StatusStillPresent, Method: MethodEmail, Confidence: 100}
	if !m.Matched() {
		t.Error("real result must report matched")
	}
}
