package transport

// CheckAccountRequest is a registration payload checked before an account is created.
type CheckAccountRequest struct {
	DisplayName string `json:"displayName" validate:"required,max=64,plaintext"`
	Email       string `json:"email" validate:"required,email,max=254"`
	Password    string `json:"password" validate:"required,notcommonpassword,strongpassword"`
}

// CheckPasswordRequest is a password change payload.
type CheckPasswordRequest struct {
	Password string `json:"password" validate:"required,notcommonpassword,strongpassword"`
}

// CheckProfileRequest is a partial profile update; absent fields are not checked.
type CheckProfileRequest struct {
	DisplayName *string `json:"displayName" validate:"omitempty,min=1,max=64,plaintext"`
	Bio         *string `json:"bio" validate:"omitempty,max=2000,plaintext"`
}

// CheckResponse is returned when every field passed.
type CheckResponse struct {
	Valid bool `json:"valid"`
}
