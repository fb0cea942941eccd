package models

import "time"

type User struct {
	ID                int64     `json:"id"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"`
	Username          string    `json:"username"`
	Role              string    `json:"role"`
	HasMentorProfile  bool      `json:"has_mentor_profile"`
	HasLearnerProfile bool      `json:"has_learner_profile"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type Skill struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}
