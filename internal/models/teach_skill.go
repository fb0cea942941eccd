package models

import "time"

const (
	LevelBeginner     = "BEGINNER"
	LevelIntermediate = "INTERMEDIATE"
	LevelAdvanced     = "ADVANCED"
	LevelExpert       = "EXPERT"
)

const (
	ModeOnline  = "ONLINE"
	ModeOffline = "OFFLINE"
	ModeHybrid  = "HYBRID"
)

var levelRank = map[string]int{
	LevelBeginner:     0,
	LevelIntermediate: 1,
	LevelAdvanced:     2,
	LevelExpert:       3,
}

// LevelAtLeast reports whether level meets or exceeds min. Unknown levels
// rank below BEGINNER.
func LevelAtLeast(level, min string) bool {
	l, ok := levelRank[level]
	if !ok {
		return false
	}
	m, ok := levelRank[min]
	if !ok {
		return false
	}
	return l >= m
}

func ValidLevel(level string) bool {
	_, ok := levelRank[level]
	return ok
}

func ValidMode(mode string) bool {
	return mode == ModeOnline || mode == ModeOffline || mode == ModeHybrid
}

// TeachSkill is a mentor's declared teaching record for one skill. These
// rows are the match candidates for the scorer.
type TeachSkill struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	Username         string    `json:"username"`
	SkillID          int64     `json:"skill_id"`
	SkillName        string    `json:"skill_name"`
	ProficiencyLevel string    `json:"proficiency_level"`
	PreferredMode    string    `json:"preferred_mode"`
	ConfidenceScore  int       `json:"confidence_score"`
	CreatedAt        time.Time `json:"created_at"`
}

type Availability struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	DayOfWeek string `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// MentorMatch is one ranked scorer result.
type MentorMatch struct {
	MentorID         int64  `json:"mentor_id"`
	MentorName       string `json:"mentor_name"`
	SkillID          int64  `json:"skill_id"`
	SkillName        string `json:"skill_name"`
	ProficiencyLevel string `json:"proficiency_level"`
	ConfidenceScore  int    `json:"confidence_score"`
	PreferredMode    string `json:"preferred_mode"`
	MatchScore       int    `json:"match_score"`
	MatchExplanation string `json:"match_explanation"`
}
