package profiles

type CreateProfileRequest struct {
	Name   string  `json:"name" binding:"required,min=1,max=64"`
	Avatar *string `json:"avatar" binding:"omitempty,max=2048"`
	Pin    string  `json:"pin"`
}

type UpdateProfileRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=1,max=64"`
	Avatar *string `json:"avatar" binding:"omitempty,max=2048"`
}

type PinRequest struct {
	CurrentPin string `json:"currentPin"`
	NewPin     string `json:"newPin"`
}

type UnlockRequest struct {
	Pin string `json:"pin"`
}

type UnlockResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}
