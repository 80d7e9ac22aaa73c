package user

// UpdateProfileRequest carries the editable profile fields. Empty fields are
// left unchanged.
type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"omitempty,max=100"`
	Email string `json:"email" binding:"omitempty,email"`
}
