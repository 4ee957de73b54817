package dto

// TagInfo 标签
type TagInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// IngredientInfo 食材，measurement_unit 为单位简称
type IngredientInfo struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// RecipeIngredientInfo 菜谱中的食材及用量
type RecipeIngredientInfo struct {
	IngredientInfo
	Amount int `json:"amount"`
}

// RecipeInfo 菜谱完整信息
type RecipeInfo struct {
	ID               int64                  `json:"id"`
	Tags             []TagInfo              `json:"tags"`
	Author           UserInfo               `json:"author"`
	Ingredients      []RecipeIngredientInfo `json:"ingredients"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
	Name             string                 `json:"name"`
	Image            string                 `json:"image"`
	Text             string                 `json:"text"`
	CookingTime      int                    `json:"cooking_time"`
}

// IngredientAmount 创建/更新菜谱时的食材用量
type IngredientAmount struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

// RecipeWriteRequest 创建/更新菜谱请求
// 未出现的字段为 nil；出现但为空的列表为非 nil 的空切片
type RecipeWriteRequest struct {
	Ingredients []IngredientAmount `json:"ingredients"`
	Tags        []int64            `json:"tags"`
	Image       *string            `json:"image"`
	Name        *string            `json:"name"`
	Text        *string            `json:"text"`
	CookingTime *int               `json:"cooking_time"`
}

// RecipeListQuery 菜谱列表筛选参数
type RecipeListQuery struct {
	Tags             []string `form:"tags"`
	Author           int64    `form:"author"`
	IsFavorited      int      `form:"is_favorited"`
	IsInShoppingCart int      `form:"is_in_shopping_cart"`
}
