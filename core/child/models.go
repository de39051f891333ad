package child

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/bassiony1/public-ANEES/core"
)

// Genders
const (
	GenderMale   = "M"
	GenderFemale = "F"
)

// Child mirrors the identity of a user of the app; ID is the identity provider's user ID.
type Child struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Gender      string    `json:"gender"`
	DateOfBirth null.Time `json:"date_of_birth"`
	Picture     string    `json:"picture"`
	DateJoined  time.Time `json:"date_joined"` // UTC
}

func (c Child) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Age is the child's age in full years at `now`, 0 when the date of birth is unknown.
func (c Child) Age(now time.Time) int {
	if !c.DateOfBirth.Valid {
		return 0
	}
	dob := c.DateOfBirth.Time.UTC()
	now = now.UTC()
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

type (
	// Accuracy holds the mean score per category over the completed levels.
	Accuracy struct {
		Receptive  float64 `json:"receptive"`
		Expressive float64 `json:"expressive"`
		Social     float64 `json:"social"`
	}

	Profile struct {
		Child              Child    `json:"user_info"`
		Age                int      `json:"age"`
		CurrentLevel       int      `json:"current_level"`
		JoinDurationInDays int      `json:"join_duration_in_days"`
		Accuracy           Accuracy `json:"accuracy"`
	}

	// Words are the answers of the games a child completed.
	Words struct {
		Receptive  []string `json:"receptive"`
		Expressive []string `json:"expressive"`
	}
)

type NewChild struct {
	ID          string    `json:"id" validate:"omitempty,uuid"`
	Username    string    `json:"username" validate:"required,max=150,alphanum_"`
	Email       string    `json:"email" validate:"omitempty,email,max=254"`
	FirstName   string    `json:"first_name" validate:"max=150"`
	LastName    string    `json:"last_name" validate:"max=150"`
	Gender      string    `json:"gender" validate:"omitempty,oneof=M F"`
	DateOfBirth null.Time `json:"date_of_birth"`
}

func (nc *NewChild) Validate(validate *validator.Validate) error {
	nc.ID = core.CleanString(nc.ID, true /* lower */)
	nc.Username = core.CleanString(nc.Username)
	nc.Email = core.CleanString(nc.Email, true /* lower */)
	nc.FirstName = core.CleanString(nc.FirstName)
	nc.LastName = core.CleanString(nc.LastName)
	nc.Gender = core.CleanString(strings.ToUpper(nc.Gender))
	return validate.Struct(nc)
}

type UpdateChild struct {
	Picture string `json:"picture" validate:"omitempty,url,max=255"`
}

func (uc *UpdateChild) Validate(validate *validator.Validate) error {
	uc.Picture = core.CleanString(uc.Picture)
	return validate.Struct(uc)
}
