package types

// Role values stored on a user row. Signup always creates nonadmin users;
// admins are promoted out of band.
const (
	RoleAdmin    = "admin"
	RoleNonAdmin = "nonadmin"
)

// User represents the core user entity in the domain.
type User struct {
	ID            int64  `json:"-"`              // Surrogate key, never exposed.
	UUID          string `json:"id"`             // Public identifier.
	FirstName     string `json:"first_name"`     // Display name.
	LastName      string `json:"last_name"`      //
	Username      string `json:"user_name"`      // Unique login name.
	Email         string `json:"email_address"`  // Unique email address.
	Password      string `json:"-"`              // Salted hash (never exposed).
	Salt          string `json:"-"`              // Per-user random salt.
	Country       string `json:"country"`        //
	AboutMe       string `json:"about_me"`       //
	DOB           string `json:"dob"`            // Date of birth, free-form string.
	Role          string `json:"-"`              // RoleAdmin or RoleNonAdmin.
	ContactNumber string `json:"contact_number"` //
}
