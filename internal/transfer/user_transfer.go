package transfer

// UserInfo is the profile payload the dashboard renders: identity
// plus the credit balance and how many platforms are connected.
type UserInfo struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	ProfilePicture    string  `json:"profile_picture"`
	Credits           float64 `json:"credits"`
	ConnectedAccounts int     `json:"connected_accounts"`
}
