package model

import (
	"time"
)

const (
	PositionSuper             = "Super"
	PositionLeader            = "Leader"
	PositionAccountDepartment = "Account Department"
	PositionOperation         = "Operation"

	GenderMale   = "Male"
	GenderFemale = "Female"
)

// Positions lists the accepted Employee.Position values.
var Positions = []string{PositionSuper, PositionLeader, PositionAccountDepartment, PositionOperation}

// Genders lists the accepted Employee.Gender values.
var Genders = []string{GenderMale, GenderFemale}

// Employee is an HR record; ServiceYears and Age are derived, never stored
type Employee struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null;index" json:"name"`
	JoinDate    time.Time `gorm:"type:date;not null" json:"joinDate"`
	Position    string    `gorm:"type:varchar(50);not null;index" json:"position"`
	Gender      string    `gorm:"type:varchar(10);not null" json:"gender"`
	DOB         time.Time `gorm:"column:dob;type:date;not null" json:"dob"`
	Phone       string    `gorm:"type:varchar(30)" json:"phone"`
	NRC         *string   `gorm:"column:nrc;type:varchar(50)" json:"nrc,omitempty"`
	Address     string    `gorm:"type:text" json:"address"`
	CreatedByID *uint     `gorm:"index" json:"createdById,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// ServiceYears is the number of completed years since JoinDate.
func (e *Employee) ServiceYears(now time.Time) int {
	return CompletedYears(e.JoinDate, now)
}

// Age is the number of completed years since DOB.
func (e *Employee) Age(now time.Time) int {
	return CompletedYears(e.DOB, now)
}

// NextBirthday returns the next occurrence of DOB on or after the day of now.
// A 29 February birthday falls on 1 March in non-leap years.
func (e *Employee) NextBirthday(now time.Time) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	next := time.Date(today.Year(), e.DOB.Month(), e.DOB.Day(), 0, 0, 0, 0, now.Location())
	if next.Before(today) {
		next = time.Date(today.Year()+1, e.DOB.Month(), e.DOB.Day(), 0, 0, 0, 0, now.Location())
	}
	return next
}

// CompletedYears counts whole years from start to now; never negative.
func CompletedYears(start, now time.Time) int {
	if start.IsZero() || now.Before(start) {
		return 0
	}
	years := now.Year() - start.Year()
	if now.Month() < start.Month() || (now.Month() == start.Month() && now.Day() < start.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

func IsValidPosition(p string) bool {
	for _, v := range Positions {
		if v == p {
			return true
		}
	}
	return false
}

func IsValidGender(g string) bool {
	return g == GenderMale || g == GenderFemale
}
