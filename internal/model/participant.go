package model

import "time"

// Team identifies one of the two fixed teams of a match.
type Team string

// The two teams every match is split into.
const (
	TeamPurple Team = "PURPLE"
	TeamYellow Team = "YELLOW"
)

// Valid returns whether t is one of the two known teams.
func (t Team) Valid() bool { return t == TeamPurple || t == TeamYellow }

// ParticipantStatus is the acceptance state of a participant row.
type ParticipantStatus string

// Participant acceptance states.  Only ACCEPTED rows count against
// capacity.
const (
	ParticipantPending  ParticipantStatus = "PENDING"
	ParticipantAccepted ParticipantStatus = "ACCEPTED"
	ParticipantRejected ParticipantStatus = "REJECTED"
)

// Valid returns whether s is a known acceptance state.
func (s ParticipantStatus) Valid() bool {
	return s == ParticipantPending || s == ParticipantAccepted || s == ParticipantRejected
}

// MatchParticipant is a row of the participation ledger: one user's claim
// on a team within a match.  The (MatchID, UserID) pair is unique.  Every
// mutation of this entity goes through the participation package so that
// the capacity invariants are checked inside the same transaction as the
// write; no other collaborator writes this table directly.
//
// Fields:
//  ID        – primary key identifier.
//  MatchID   – match the row belongs to.
//  UserID    – participating user.
//  Team      – assigned team.
//  Status    – acceptance state.
//  Confirmed – attendance confirmation flag, consumed by the readiness
//              evaluator.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type MatchParticipant struct {
	ID        int64             // match_participants.id
	MatchID   int64             // match_participants.match_id
	UserID    string            // match_participants.user_id
	Team      Team              // match_participants.team
	Status    ParticipantStatus // match_participants.status
	Confirmed bool              // match_participants.confirmed
	CreatedAt time.Time         // match_participants.created_at
	UpdatedAt time.Time         // match_participants.updated_at
}
