package model

// Weekday is a 1 (Monday) .. 7 (Sunday) ISO weekday number.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// WeekdaySet is a bitmask over Weekday, stored as a smallint column.
// Bit (1 << (d-1)) is set when day d is in the set.
type WeekdaySet int

// NewWeekdaySet builds a set from the given days.
func NewWeekdaySet(days ...Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s = s.Add(d)
	}
	return s
}

func (s WeekdaySet) Add(d Weekday) WeekdaySet {
	return s | (1 << (d - 1))
}

func (s WeekdaySet) Has(d Weekday) bool {
	return s&(1<<(d-1)) != 0
}

// Contains reports whether s is a superset of required.
func (s WeekdaySet) Contains(required WeekdaySet) bool {
	return s&required == required
}

// WeekdaysMonFri is the common "office on weekdays" pattern.
var WeekdaysMonFri = NewWeekdaySet(Monday, Tuesday, Wednesday, Thursday, Friday)

// WeekdaysMonSat extends the working pattern through Saturday.
var WeekdaysMonSat = NewWeekdaySet(Monday, Tuesday, Wednesday, Thursday, Friday, Saturday)

// Member — roster participant. Created by an admin; never hard-deleted,
// only soft-deactivated (Active=false), per spec.md §3.
type Member struct {
	MemberID     string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"member_id"`
	Name         string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        *string `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string  `gorm:"type:varchar(20);not null;default:'member'"     json:"role"` // admin | member
	OfficeDays   int     `gorm:"type:smallint;not null;default:0"               json:"office_days"`
	Active       bool    `gorm:"not null;default:true"                          json:"active"`
	VersionedModel
}

func (Member) TableName() string { return "members" }

// HasOfficeDays reports whether the member is in the office on every day of required.
func (m *Member) HasOfficeDays(required WeekdaySet) bool {
	return WeekdaySet(m.OfficeDays).Contains(required)
}
