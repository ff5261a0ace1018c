package service

import (
	"strings"

	"github.com/lshigami/examprep/internal/model"
)

const guestPrefix = "guest|"

// Subject is whoever is calling: a signed-in user or an anonymous guest. ID is the key
// used for attempt counters, favorites and results.
type Subject struct {
	ID    string
	Guest bool
	Role  string
}

func UserSubject(userID, role string) Subject {
	if role == "" {
		role = model.RoleUser
	}
	return Subject{ID: userID, Role: role}
}

func GuestSubject(guestID string) Subject {
	return Subject{ID: guestPrefix + strings.TrimSpace(guestID), Guest: true}
}

func (s Subject) IsAdmin() bool { return !s.Guest && s.Role == model.RoleAdmin }
