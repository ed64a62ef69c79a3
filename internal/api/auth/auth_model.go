package auth

// SignupUserRequest is the registration payload. Field names follow the
// public API contract, not the storage columns.
type SignupUserRequest struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Username      string `json:"user_name"`
	Email         string `json:"email_address"`
	Password      string `json:"password"`
	Country       string `json:"country"`
	AboutMe       string `json:"about_me"`
	DOB           string `json:"dob"`
	ContactNumber string `json:"contact_number"`
}

type SignupUserResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type SigninResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type SignoutResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}
