package student

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/trezcool/ielts/core"
)

// GroupOthers is the group choice that requires the student to type their group.
const GroupOthers = "Others"

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Group     string    `json:"group"`
	LoginTime time.Time `json:"login_time"` // UTC
}

func (u User) FullName() string {
	return strings.TrimSpace(u.Name + " " + u.Surname)
}

// Initial is the avatar letter of the student.
func (u User) Initial() string {
	for _, r := range u.Name {
		return strings.ToUpper(string(r))
	}
	return ""
}

// NewUser contains the information a student logs in with.
type NewUser struct {
	Name       string `json:"name" validate:"required"`
	Surname    string `json:"surname" validate:"required"`
	Group      string `json:"group" validate:"required"`
	OtherGroup string `json:"other_group"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Surname = core.CleanString(nu.Surname)
	nu.Group = core.CleanString(nu.Group)
	nu.OtherGroup = core.CleanString(nu.OtherGroup)
	return validate.Struct(nu)
}

// GroupName returns the group the student belongs to.
func (nu NewUser) GroupName() string {
	if nu.Group == GroupOthers {
		return nu.OtherGroup
	}
	return nu.Group
}

// NewSession creates the User of a new login session.
func NewSession(nu NewUser, group string, now time.Time) User {
	return User{
		ID:        uuid.NewString(),
		Name:      nu.Name,
		Surname:   nu.Surname,
		Group:     group,
		LoginTime: now.UTC(),
	}
}
