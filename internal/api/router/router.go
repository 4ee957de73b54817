package router

import (
	"net/http"

	"foodgram-go/internal/api/handler"
	"foodgram-go/internal/api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers 所有业务路由的处理器
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Relation *handler.RelationHandler
	Catalog  *handler.CatalogHandler
	Recipe   *handler.RecipeHandler
	Favorite *handler.FavoriteHandler
	Search   *handler.SearchHandler
}

// New 创建 gin 引擎并挂载通用中间件与运维路由
func New(mode string) *gin.Engine {
	gin.SetMode(mode)

	r := gin.New()
	r.RedirectTrailingSlash = true
	r.Use(middleware.Recovery(), middleware.Logger(), middleware.Metrics())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return r
}

// Setup 注册所有业务路由；limiter 为 nil 时登录与注册不限流
func Setup(r *gin.Engine, h Handlers, auth middleware.Authenticator, limiter *middleware.RateLimiter) {
	required := middleware.AuthRequired(auth)
	optional := middleware.AuthOptional(auth)
	var limited gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if limiter != nil {
		limited = middleware.RateLimit(limiter)
	}

	api := r.Group("/api")

	// --- 认证 ---
	token := api.Group("/auth/token")
	{
		token.POST("/login/", limited, h.Auth.Login)
		token.POST("/logout/", required, h.Auth.Logout)
	}

	// --- 用户与订阅 ---
	users := api.Group("/users")
	{
		users.GET("/", optional, h.User.ListUsers)
		users.POST("/", limited, h.User.Register)
		users.GET("/me/", required, h.User.GetMe)
		users.PUT("/me/avatar/", required, h.User.SetAvatar)
		users.DELETE("/me/avatar/", required, h.User.DeleteAvatar)
		users.POST("/set_password/", required, h.User.SetPassword)
		users.GET("/subscriptions/", required, h.Relation.ListSubscriptions)
		users.GET("/:id/", optional, h.User.GetUser)
		users.POST("/:id/subscribe/", required, h.Relation.Subscribe)
		users.DELETE("/:id/subscribe/", required, h.Relation.Unsubscribe)
	}

	// --- 标签与食材 ---
	api.GET("/tags/", h.Catalog.ListTags)
	api.GET("/tags/:id/", h.Catalog.GetTag)
	api.GET("/ingredients/", h.Catalog.ListIngredients)
	api.GET("/ingredients/:id/", h.Catalog.GetIngredient)

	// --- 菜谱 ---
	recipes := api.Group("/recipes")
	{
		recipes.GET("/", optional, h.Recipe.ListRecipes)
		recipes.POST("/", required, h.Recipe.CreateRecipe)
		recipes.GET("/download_shopping_cart/", required, h.Favorite.DownloadShoppingCart)
		recipes.GET("/:id/", optional, h.Recipe.GetRecipe)
		recipes.PUT("/:id/", required, h.Recipe.UpdateRecipe)
		recipes.PATCH("/:id/", required, h.Recipe.UpdateRecipe)
		recipes.DELETE("/:id/", required, h.Recipe.DeleteRecipe)
		recipes.GET("/:id/get-link/", h.Recipe.GetLink)
		recipes.POST("/:id/favorite/", required, h.Favorite.Favorite)
		recipes.DELETE("/:id/favorite/", required, h.Favorite.Unfavorite)
		recipes.POST("/:id/shopping_cart/", required, h.Favorite.AddToCart)
		recipes.DELETE("/:id/shopping_cart/", required, h.Favorite.RemoveFromCart)
	}

	// --- 搜索 ---
	api.GET("/search/recipes/", optional, h.Search.SearchRecipes)

	// 短链位于根路径
	r.GET("/s/:token/", h.Recipe.RedirectShortLink)
}
