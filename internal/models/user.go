package models

// User is the identity taken from a verified access token.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}
