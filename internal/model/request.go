package model

type RegisterRequest struct {
	Email    string `json:"email"`
	Fullname string `json:"fullname"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ChangePasswordRequest struct {
	OldPassword     string `json:"oldPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type UpdateAccountRequest struct {
	Email    string `json:"email"`
	Fullname string `json:"fullname"`
}

type CreateNoteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// EditNoteRequest uses pointers so that an absent field and an explicit
// zero value can be told apart: "isPinned":false must unpin, while leaving
// the field out must change nothing.
type EditNoteRequest struct {
	Title    *string   `json:"title"`
	Content  *string   `json:"content"`
	Tags     *[]string `json:"tags"`
	IsPinned *bool     `json:"isPinned"`
}

type UpdatePinRequest struct {
	IsPinned *bool `json:"isPinned"`
}
