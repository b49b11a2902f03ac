package entity

// User represents an account on the platform
type User struct {
	Id        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
	ImagePath string `json:"profilePicturePath,omitempty"`
}

// UserSummary is the reduced user projection used in chat views
type UserSummary struct {
	Id        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Summary returns the chat projection of the user
func (u *User) Summary() UserSummary {
	return UserSummary{
		Id:        u.Id,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
