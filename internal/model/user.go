package model

type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	Role      string `json:"role,omitempty"`
	CreatedAt string `json:"created_at"`
}

type SyncUserRequest struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

type SyncUserResponse struct {
	User User `json:"user"`
}

type GetUserRequest struct {
	ID string `json:"id"`
}

type GetUserResponse struct {
	User User `json:"user"`
}

type GetMeRequest struct{}

type GetMeResponse struct {
	User User `json:"user"`
}

type GetUsersRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetUsersResponse struct {
	Users []User `json:"users"`
}
