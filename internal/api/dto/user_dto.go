package dto

// UserCreateRequest 注册请求
type UserCreateRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150,username"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8,max=150"`
}

// UserCreated 注册成功返回的信息
type UserCreated struct {
	Email     string `json:"email"`
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UserInfo 用户公开信息，is_subscribed 相对当前请求者
type UserInfo struct {
	Email        string  `json:"email"`
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	IsSubscribed bool    `json:"is_subscribed"`
	Avatar       *string `json:"avatar"`
}

// AvatarRequest 头像上传（base64 data URI）
type AvatarRequest struct {
	Avatar string `json:"avatar" binding:"required"`
}

// AvatarData 头像地址
type AvatarData struct {
	Avatar string `json:"avatar"`
}
