package model

// User is the authenticated gallery user. The system has a single fixed
// credential pair; there is no user registry.
type User struct {
	Username        string `json:"username"`
	IsAuthenticated bool   `json:"isAuthenticated"`
}
