// Package signals extracts structured achievement signals from free-text
// activity descriptions and converts them into a small, capped probability
// uplift. The uplift shrinks with school selectivity so it never dominates
// the core pipeline.
package signals

import (
	"regexp"
	"strconv"
	"strings"
)

// Signals is the structured summary of an applicant's activity list.
type Signals struct {
	HasResearch      bool `json:"has_research"`
	HasInternship    bool `json:"has_internship"`
	HasCompetition   bool `json:"has_competition"`
	HasSummerProgram bool `json:"has_summer_program"`
	HasNonprofit     bool `json:"has_nonprofit"`
	HasWork          bool `json:"has_work"`
	HasLeadership    bool `json:"has_leadership"`
	HasService       bool `json:"has_service"`

	AwardNational bool `json:"award_national"`
	AwardState    bool `json:"award_state"`
	AwardRegional bool `json:"award_regional"`
	AwardSchool   bool `json:"award_school"`

	RigorIB         bool `json:"rigor_ib"`
	RigorDualEnroll bool `json:"rigor_dual_enroll"`
	RigorCambridge  bool `json:"rigor_cambridge"`
	RigorAPExam     bool `json:"rigor_ap_exam"`

	CountAwards     int `json:"count_awards"`
	CountLeadership int `json:"count_leadership"`
	CountService    int `json:"count_service"`
	CountProjects   int `json:"count_projects"`

	MaxHours int `json:"max_hours"`
}

// hoursPattern matches explicit hour totals like "250 hours" or "300+ hrs".
var hoursPattern = regexp.MustCompile(`(?i)(\d{2,4})\s*\+?\s*(?:hours?|hrs?)`)

const countCap = 8

// Extract scans free-text items for achievement signals. Matching is
// keyword-based and case-insensitive; items that match nothing are ignored.
func Extract(items []string) Signals {
	var s Signals

	for _, item := range items {
		text := strings.ToLower(item)
		if strings.TrimSpace(text) == "" {
			continue
		}

		if containsAny(text, "research", "lab ", "laboratory", "publication", "published") {
			s.HasResearch = true
			s.CountProjects++
		}
		if containsAny(text, "intern", "co-op", "coop ") {
			s.HasInternship = true
		}
		if containsAny(text, "olympiad", "competition", "competitive", "hackathon", "tournament", "contest") {
			s.HasCompetition = true
		}
		if containsAny(text, "summer program", "summer institute", "summer school", "pre-college") {
			s.HasSummerProgram = true
		}
		if containsAny(text, "nonprofit", "non-profit", "founded", "charity") {
			s.HasNonprofit = true
		}
		if containsAny(text, "job", "employ", "part-time", "work experience", "worked") {
			s.HasWork = true
		}
		if containsAny(text, "president", "captain", "founder", "leader", "chair", "head of", "director") {
			s.HasLeadership = true
			s.CountLeadership++
		}
		if containsAny(text, "volunteer", "community service", "service hours", "tutoring", "mentoring") {
			s.HasService = true
			s.CountService++
		}
		if containsAny(text, "project", "built", "developed", "created app", "startup") {
			s.CountProjects++
		}

		switch {
		case containsAny(text, "national", "international", "usamo", "isef"):
			if containsAny(text, "award", "medal", "winner", "finalist", "champion", "prize", "place") {
				s.AwardNational = true
				s.CountAwards++
			}
		case strings.Contains(text, "state"):
			if containsAny(text, "award", "medal", "winner", "finalist", "champion", "prize", "place") {
				s.AwardState = true
				s.CountAwards++
			}
		case containsAny(text, "regional", "county", "district"):
			if containsAny(text, "award", "medal", "winner", "finalist", "champion", "prize", "place") {
				s.AwardRegional = true
				s.CountAwards++
			}
		case containsAny(text, "award", "medal", "honor roll", "prize"):
			s.AwardSchool = true
			s.CountAwards++
		}

		if containsAny(text, "ib diploma", "international baccalaureate", "ib hl") {
			s.RigorIB = true
		}
		if containsAny(text, "dual enroll", "dual-enroll", "community college course", "college course") {
			s.RigorDualEnroll = true
		}
		if containsAny(text, "cambridge", "a-level", "aice") {
			s.RigorCambridge = true
		}
		if containsAny(text, "ap exam", "ap score", "advanced placement") {
			s.RigorAPExam = true
		}

		if m := hoursPattern.FindStringSubmatch(text); m != nil {
			if hours, err := strconv.Atoi(m[1]); err == nil && hours > s.MaxHours {
				s.MaxHours = hours
			}
		}
	}

	// Heavy hour commitments imply sustained involvement even when the
	// category keywords were vague.
	if s.MaxHours >= 200 {
		s.HasService = true
		s.HasWork = true
		s.HasLeadership = true
	}

	s.CountAwards = capCount(s.CountAwards)
	s.CountLeadership = capCount(s.CountLeadership)
	s.CountService = capCount(s.CountService)
	s.CountProjects = capCount(s.CountProjects)

	return s
}

func containsAny(text string, keys ...string) bool {
	for _, k := range keys {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func capCount(n int) int {
	if n > countCap {
		return countCap
	}
	return n
}

// Uplift converts signals into a bounded additive probability bonus. The
// bonus is scaled down for selective schools and hard-capped so it can only
// nudge, never flip, a prediction.
func Uplift(s Signals, acceptanceRate float64) float64 {
	uplift := 0.0

	if s.HasResearch {
		uplift += 0.015
	}
	if s.HasInternship {
		uplift += 0.015
	}
	if s.HasCompetition {
		uplift += 0.01
	}
	if s.HasSummerProgram {
		uplift += 0.008
	}
	if s.HasNonprofit {
		uplift += 0.008
	}
	if s.HasWork {
		uplift += 0.006
	}
	if s.HasLeadership {
		uplift += 0.01
	}
	if s.HasService {
		uplift += 0.006
	}

	switch {
	case s.AwardNational:
		uplift += 0.02
	case s.AwardState:
		uplift += 0.012
	case s.AwardRegional:
		uplift += 0.01
	case s.AwardSchool:
		uplift += 0.006
	}

	// Any recognized award guarantees a minimum floor.
	hasAward := s.AwardNational || s.AwardState || s.AwardRegional || s.AwardSchool
	if hasAward && uplift < 0.008 {
		uplift += 0.008
	}

	if s.RigorIB {
		uplift += 0.01
	}
	if s.RigorDualEnroll {
		uplift += 0.01
	}
	if s.RigorCambridge {
		uplift += 0.008
	}
	if s.RigorAPExam {
		uplift += 0.004
	}

	dense := 0
	for _, n := range []int{s.CountAwards, s.CountLeadership, s.CountService, s.CountProjects} {
		if n >= 3 {
			dense++
		}
	}
	if dense >= 2 {
		uplift += 0.01
	}

	uplift *= selectivityMultiplier(acceptanceRate)

	if limit := upliftCap(acceptanceRate); uplift > limit {
		uplift = limit
	}
	return uplift
}

func selectivityMultiplier(rate float64) float64 {
	switch {
	case rate < 0.10:
		return 0.6
	case rate < 0.20:
		return 0.75
	case rate < 0.35:
		return 0.9
	default:
		return 1.0
	}
}

func upliftCap(rate float64) float64 {
	switch {
	case rate < 0.10:
		return 0.06
	case rate < 0.25:
		return 0.08
	default:
		return 0.10
	}
}
