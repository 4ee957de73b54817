package model

import "time"

// User 用户模型，登录凭证为 email
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:用户标识" json:"id"`
	Email     string    `gorm:"size:254;not null;uniqueIndex;comment:邮箱" json:"email"`
	Username  string    `gorm:"size:150;not null;uniqueIndex;comment:用户名" json:"username"`
	FirstName string    `gorm:"size:150;not null;comment:名" json:"first_name"`
	LastName  string    `gorm:"size:150;not null;comment:姓" json:"last_name"`
	Password  string    `gorm:"size:255;not null;comment:密码" json:"-"`
	Avatar    *string   `gorm:"size:500;comment:用户头像" json:"avatar"`
	CreatedAt time.Time `gorm:"autoCreateTime;comment:注册时间" json:"-"`

	Recipes []Recipe `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}
