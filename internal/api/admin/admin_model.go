package admin

type DeleteUserResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
