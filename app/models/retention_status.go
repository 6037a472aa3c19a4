package models

import "strings"

// RetentionStatus is the closed set of survey outcomes. StatusUnknown is
// reserved for registrations that no survey row could be matched to.
type RetentionStatus string

const (
	StatusStillPresent    RetentionStatus = "still_present"
	StatusNoLongerPresent RetentionStatus = "no_longer_present"
	StatusInconclusive    RetentionStatus = "inconclusive"
	StatusUnknown         RetentionStatus = "unknown"
)

// ParseRetentionStatus maps the free-text survey status column onto the
// enumeration. Blank or unrecognized values degrade to StatusInconclusive
// rather than failing the run. StatusUnknown is never produced here: it
// would let a matched registration carry the unmatched marker.
func ParseRetentionStatus(raw string) RetentionStatus {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return StatusInconclusive
	}
	switch {
	case strings.HasPrefix(s, "still"):
		return StatusStillPresent
	case strings.HasPrefix(s, "no longer"), strings.HasPrefix(s, "left"), strings.HasPrefix(s, "moved"):
		return StatusNoLongerPresent
	case strings.HasPrefix(s, "inconclusive"), strings.HasPrefix(s, "unsure"), strings.HasPrefix(s, "unclear"):
		return StatusInconclusive
	default:
		return StatusInconclusive
	}
}
