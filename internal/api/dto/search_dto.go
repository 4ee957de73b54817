package dto

// SearchRecipeRequest 搜索请求参数
type SearchRecipeRequest struct {
	Q string `form:"q" binding:"required,max=200"`
}
