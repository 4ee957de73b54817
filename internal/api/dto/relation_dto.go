package dto

// SubscriptionInfo 订阅列表中的作者信息及其最新菜谱
type SubscriptionInfo struct {
	UserInfo
	Recipes      []RecipeShort `json:"recipes"`
	RecipesCount int64         `json:"recipes_count"`
}
