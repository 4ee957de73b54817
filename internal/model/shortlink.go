package model

import "time"

// ShortLink 菜谱短链，与菜谱一对一
type ShortLink struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	RecipeID  int64     `gorm:"not null;uniqueIndex;comment:菜谱ID" json:"recipe_id"`
	Token     string    `gorm:"size:32;not null;uniqueIndex;comment:短链标识" json:"token"`
	FullURL   string    `gorm:"size:500;not null;uniqueIndex;comment:完整地址" json:"full_url"`
	ShortURL  string    `gorm:"size:200;not null;uniqueIndex;comment:短链地址" json:"short_url"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Recipe Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ShortLink) TableName() string {
	return "short_links"
}
