package model

import "time"

// Subscription 用户订阅关系，UserID 为订阅者，FollowingID 为被订阅作者
type Subscription struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;comment:订阅关系id" json:"id"`
	UserID      int64     `gorm:"not null;uniqueIndex:uq_user_following;check:chk_prevent_self_following,user_id <> following_id;comment:订阅者id" json:"user_id"`
	FollowingID int64     `gorm:"not null;uniqueIndex:uq_user_following;index:idx_following_id;comment:被订阅作者id" json:"following_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime;comment:订阅时间" json:"created_at"`

	User      User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Following User `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// Bind 设置关系两端
func (s *Subscription) Bind(userID, authorID int64) {
	s.UserID = userID
	s.FollowingID = authorID
}
