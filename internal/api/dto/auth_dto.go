package dto

// LoginRequest 登录请求（以邮箱登录）
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,max=150"`
}

// TokenData 登录成功返回的 Token
type TokenData struct {
	AuthToken string `json:"auth_token"`
}

// SetPasswordRequest 修改密码请求
type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" binding:"required,min=8,max=150"`
	CurrentPassword string `json:"current_password" binding:"required"`
}
