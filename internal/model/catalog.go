package model

// Sport is a reference-data row in the `sports` table.  Sports are static
// catalog entries maintained outside this service.
//
// Fields:
//  ID   – primary key identifier.
//  Name – unique sport name (e.g. "football").
type Sport struct {
	ID   int64  // sports.id
	Name string // sports.name
}

// Location is a venue offering a single sport.  Each location owns one or
// more fields.
//
// Fields:
//  ID      – primary key identifier.
//  SportID – sport practiced at this location.
//  Name    – venue name.
//  Address – street address, free form.
type Location struct {
	ID      int64  // locations.id
	SportID int64  // locations.sport_id
	Name    string // locations.name
	Address string // locations.address
}

// Field is a bookable playing surface within a location.  Schedules
// reference fields to define their bookable intervals.
//
// Fields:
//  ID         – primary key identifier.
//  LocationID – owning location.
//  Name       – field name within the venue (e.g. "Pitch 2").
type Field struct {
	ID         int64  // fields.id
	LocationID int64  // fields.location_id
	Name       string // fields.name
}
