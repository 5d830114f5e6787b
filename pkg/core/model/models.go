package model

import (
	"slices"
	"strings"
)

// Role is a duty type that can be held by a worker for a day
type Role string

const (
	RoleCoverageA     Role = "Coverage A"
	RoleCoverageB     Role = "Coverage B"
	RoleAfternoon     Role = "Afternoon"
	RoleReinforcement Role = "Reinforcement"
	RoleMail          Role = "Mail"

	// RoleNoDuty exempts a worker from rotation for the day without producing an event
	RoleNoDuty Role = "No duty"
)

// RotatingRoles lists the roles allocated by the engine, in phase order
var RotatingRoles = []Role{
	RoleAfternoon,
	RoleReinforcement,
	RoleCoverageA,
	RoleCoverageB,
	RoleMail,
}

// IsRotating returns true if the role is allocated by the engine
func (r Role) IsRotating() bool {
	return slices.Contains(RotatingRoles, r)
}

// IsValid returns true for rotating roles and the no-duty sentinel
func (r Role) IsValid() bool {
	return r.IsRotating() || r == RoleNoDuty
}

// Skill is a capability that makes a worker eligible for a role
type Skill string

const (
	SkillAfternoon Skill = "afternoon"
	SkillMail      Skill = "mail"
	SkillFlexible  Skill = "flexible"
	SkillReduced   Skill = "reduced"
)

// EventType is the type stored on a calendar event
type EventType string

const (
	EventVacation     EventType = "Vacation"
	EventMedicalLeave EventType = "Medical leave"
	EventLeave        EventType = "Leave"
	EventAbsent       EventType = "Absent"

	// EventNoDuty marks the default state; it never blocks availability
	EventNoDuty EventType = EventType(RoleNoDuty)
)

var absenceTypes = []EventType{
	EventVacation,
	EventMedicalLeave,
	EventLeave,
	EventAbsent,
}

// IsAbsence returns true if the event means the worker is not working that day
func (t EventType) IsAbsence() bool {
	return slices.Contains(absenceTypes, t)
}

// IsDuty returns true if the event is a manually booked rotating role
func (t EventType) IsDuty() bool {
	return Role(t).IsRotating()
}

// IsNoDuty returns true for the neutral no-duty marker
func (t EventType) IsNoDuty() bool {
	return t == EventNoDuty
}

// BlocksAvailability returns true if a worker holding this event cannot be allocated.
// Unknown types are treated as busy.
func (t EventType) BlocksAvailability() bool {
	return t != "" && !t.IsNoDuty()
}

// Worker represents a member of staff eligible for rotation
type Worker struct {
	ID        string
	FirstName string
	LastName  string
	Skills    []Skill

	// FixedRoles is the fixed-role directive:
	// empty = none, one entry = mandatory role, several = permitted set
	FixedRoles []Role
}

// Name returns the display name used to identify the worker on calendar events
func (w Worker) Name() string {
	return strings.TrimSpace(w.FirstName + " " + w.LastName)
}

// HasSkill returns true if the worker carries the given skill
func (w Worker) HasSkill(skill Skill) bool {
	return slices.Contains(w.Skills, skill)
}

// MandatoryRole returns the single fixed role, if the directive names exactly one
func (w Worker) MandatoryRole() (Role, bool) {
	if len(w.FixedRoles) != 1 {
		return "", false
	}
	return w.FixedRoles[0], true
}

// PermittedRoles returns the permitted set when the directive names several roles
func (w Worker) PermittedRoles() []Role {
	if len(w.FixedRoles) < 2 {
		return nil
	}
	return w.FixedRoles
}

// ParseSkills splits a comma separated skill list, ignoring blanks
func ParseSkills(raw string) []Skill {
	var skills []Skill
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		skills = append(skills, Skill(part))
	}
	return skills
}

// ParseRoles splits a comma separated role list, ignoring blanks
func ParseRoles(raw string) []Role {
	var roles []Role
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		roles = append(roles, Role(part))
	}
	return roles
}
