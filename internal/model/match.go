package model

import "time"

// Valid values for Match.LevelRequired.
const (
	LevelBeginner     = "BEGINNER"
	LevelIntermediate = "INTERMEDIATE"
	LevelAdvanced     = "ADVANCED"
	LevelPro          = "PRO"
)

// Valid values for Match.Gender.
const (
	GenderMixed = "MIXED"
	GenderMen   = "MEN"
	GenderWomen = "WOMEN"
)

// Valid values for Match.Status.  The status column is informational only:
// fullness is always enforced through accepted-participant counts, never
// through this field.
const (
	MatchOpen       = "OPEN"
	MatchAlmostFull = "ALMOST_FULL"
	MatchFull       = "FULL"
	MatchCancelled  = "CANCELLED"
)

// Match represents an organized play session in the `matches` table.  A
// match is bound to at most one schedule slot; the schedule_id column
// carries a unique index so that the slot-to-match binding is one-to-one
// and match creation from a slot can be an idempotent upsert.
//
// Fields:
//  ID              – primary key identifier.
//  ScheduleID      – bound slot, nil for manually created matches.
//  CreatorID       – user who created the match.
//  SportID         – sport played.
//  LocationID      – venue.
//  MatchDate       – calendar date of the match.
//  StartTime       – start of the time window (HH:MM).
//  EndTime         – end of the time window (HH:MM).
//  MaxPlayers      – total roster capacity.
//  LevelRequired   – minimum skill level.
//  Gender          – gender policy.
//  Price           – per-player price, informational.
//  IsPublic        – whether the match is publicly listed.
//  PrivateCodeHash – bcrypt hash of the organizer-set private code, nil
//                    when the match is public.
//  AutoValidate    – whether join requests are accepted automatically.
//  Deadline        – optional registration deadline.
//  Description     – optional free-form description.
//  Status          – informational lifecycle status.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Match struct {
	ID              int64      // matches.id
	ScheduleID      *int64     // matches.schedule_id (nullable, unique)
	CreatorID       string     // matches.creator_id
	SportID         int64      // matches.sport_id
	LocationID      int64      // matches.location_id
	MatchDate       time.Time  // matches.match_date
	StartTime       string     // matches.start_time
	EndTime         string     // matches.end_time
	MaxPlayers      int        // matches.max_players
	LevelRequired   string     // matches.level_required
	Gender          string     // matches.gender
	Price           int        // matches.price
	IsPublic        bool       // matches.is_public
	PrivateCodeHash *string    // matches.private_code_hash (nullable)
	AutoValidate    bool       // matches.auto_validate
	Deadline        *time.Time // matches.deadline (nullable)
	Description     *string    // matches.description (nullable)
	Status          string     // matches.status
	CreatedAt       time.Time  // matches.created_at
	UpdatedAt       time.Time  // matches.updated_at
}
