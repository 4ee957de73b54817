package dto

// RecipeShort 菜谱简要信息，用于收藏、购物清单与订阅列表
type RecipeShort struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// ShortLinkData 菜谱短链
type ShortLinkData struct {
	ShortLink string `json:"short-link"`
}
