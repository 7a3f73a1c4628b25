package models

// PublicUser is the client-facing projection of a User; it never carries the
// password hash or reset-token fields.
type PublicUser struct {
	ID          uint     `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	RoadmapJSON string   `json:"roadmapJson,omitempty"`
}

// ToPublic converts a stored user into its public projection.
func (u *User) ToPublic() *PublicUser {
	return &PublicUser{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Roles:       u.Roles,
		RoadmapJSON: u.Roadmap(),
	}
}
