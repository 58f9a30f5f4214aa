package model

// Schedule represents a bookable time slot of a field in the `schedules`
// table.  Slots are created and edited by field-management collaborators;
// this service reads them and mutates only the IsAvailable flag, which acts
// as a cache of "fewer than max-players accepted participants on the match
// bound to this slot".  A slot is never deleted while a match references it.
//
// Fields:
//  ID          – primary key identifier.
//  FieldID     – field this slot belongs to.
//  Day         – calendar day in YYYY-MM-DD form.
//  Start       – slot start in HH:MM form.
//  End         – slot end in HH:MM form.
//  IsAvailable – cached availability flag, owned by the availability
//                synchronizer.  True while the bound match (if any) still
//                has room.
type Schedule struct {
	ID          int64  // schedules.id
	FieldID     int64  // schedules.field_id
	Day         string // schedules.day
	Start       string // schedules.start
	End         string // schedules.end
	IsAvailable bool   // schedules.is_available
}

// SchedulePlacement is a schedule joined with its field, location and sport
// linkage.  The match lifecycle manager uses it to seed the denormalized
// fields of a slot-derived match.
type SchedulePlacement struct {
	Schedule
	LocationID int64 // fields.location_id
	SportID    int64 // locations.sport_id
}
