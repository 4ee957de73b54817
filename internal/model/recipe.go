package model

import "time"

// Recipe 菜谱模型
type Recipe struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;comment:菜谱标识" json:"id"`
	AuthorID    int64     `gorm:"not null;index:idx_recipes_author_id;comment:作者ID" json:"author_id"`
	Name        string    `gorm:"size:256;not null;comment:菜谱名称" json:"name"`
	Text        string    `gorm:"type:text;not null;comment:做法描述" json:"text"`
	Image       string    `gorm:"size:500;not null;comment:成品图片地址" json:"image"`
	CookingTime int       `gorm:"not null;check:chk_recipes_cooking_time,cooking_time >= 1;comment:烹饪时间（分钟）" json:"cooking_time"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_recipes_created_at;comment:发布时间" json:"created_at"`

	// 关联关系
	Author      User               `gorm:"foreignKey:AuthorID" json:"-"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"-"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// RecipeIngredient 菜谱与食材的关联（含用量）
type RecipeIngredient struct {
	ID           int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	RecipeID     int64 `gorm:"not null;uniqueIndex:uq_recipe_ingredient;comment:菜谱ID" json:"recipe_id"`
	IngredientID int64 `gorm:"not null;uniqueIndex:uq_recipe_ingredient;index;comment:食材ID" json:"ingredient_id"`
	Amount       int   `gorm:"not null;check:chk_recipe_ingredients_amount,amount >= 1;comment:用量" json:"amount"`

	Ingredient Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"-"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

// RecipeTag 菜谱与标签的关联，联合主键保证唯一
type RecipeTag struct {
	RecipeID int64 `gorm:"primaryKey;comment:菜谱ID"`
	TagID    int64 `gorm:"primaryKey;index;comment:标签ID"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}
