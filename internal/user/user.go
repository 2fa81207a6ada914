package user

import "time"

const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

// Location is the optional structured address attached to a user.
type Location struct {
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Location  Location  `json:"location"`
	Gender    string    `json:"gender"`
	CreatedAt time.Time `json:"createdAt"`
}
