package model

type AccessToken struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}
