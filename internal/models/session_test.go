package models

import "testing"

func TestSessionRosterLookups(t *testing.T) {
	session := &Session{
		Participants: []SessionParticipant{
			{ID: 1, UserID: 7, Role: RoleMentor},
			{ID: 2, UserID: 42, Role: RoleLearner},
			{ID: 3, UserID: 43, Role: RoleLearner},
		},
	}

	mentor := session.Mentor()
	if mentor == nil || mentor.UserID != 7 {
		t.Fatalf("expected mentor 7, got %+v", mentor)
	}

	learner := session.Learner()
	if learner == nil || learner.UserID != 42 {
		t.Fatalf("expected first learner 42, got %+v", learner)
	}

	second := session.LearnerByUserID(43)
	if second == nil || second.ID != 3 {
		t.Fatalf("expected participant 3 for user 43, got %+v", second)
	}

	if session.LearnerByUserID(7) != nil {
		t.Fatalf("mentor must not resolve as a learner")
	}
	if session.LearnerByUserID(999) != nil {
		t.Fatalf("unknown user must not resolve")
	}
}

func TestSessionTerminal(t *testing.T) {
	for _, status := range []string{SessionRequested, SessionAccepted, SessionLive, SessionInProgress} {
		if (&Session{Status: status}).Terminal() {
			t.Fatalf("%s must not be terminal", status)
		}
	}
	for _, status := range []string{SessionCompleted, SessionCancelled} {
		if !(&Session{Status: status}).Terminal() {
			t.Fatalf("%s must be terminal", status)
		}
	}
}

func TestLevelAtLeast(t *testing.T) {
	if !LevelAtLeast(LevelExpert, LevelBeginner) {
		t.Fatalf("EXPERT should meet BEGINNER")
	}
	if !LevelAtLeast(LevelIntermediate, LevelIntermediate) {
		t.Fatalf("equal levels should meet")
	}
	if LevelAtLeast(LevelBeginner, LevelAdvanced) {
		t.Fatalf("BEGINNER should not meet ADVANCED")
	}
	if LevelAtLeast("GURU", LevelBeginner) {
		t.Fatalf("unknown level should never meet")
	}
}
