package model

// Tag 菜谱标签
type Tag struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:256;not null;uniqueIndex;comment:标签名" json:"name"`
	Slug string `gorm:"size:50;not null;uniqueIndex;comment:标签slug" json:"slug"`
}

func (Tag) TableName() string {
	return "tags"
}
