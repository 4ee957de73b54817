// Package openapi 由 swag 注册的接口文档，路由注释变更后需同步更新
package openapi

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/token/login/": {"post": {"tags": ["认证"], "summary": "获取认证令牌", "responses": {"200": {"description": "登录成功"}, "400": {"description": "邮箱或密码错误"}, "429": {"description": "请求过于频繁"}}}},
        "/auth/token/logout/": {"post": {"security": [{"TokenAuth": []}], "tags": ["认证"], "summary": "注销认证令牌", "responses": {"204": {"description": "登出成功"}}}},
        "/users/": {
            "get": {"tags": ["用户"], "summary": "用户列表", "responses": {"200": {"description": "获取成功"}}},
            "post": {"tags": ["用户"], "summary": "用户注册", "responses": {"201": {"description": "注册成功"}, "400": {"description": "请求参数无效"}}}
        },
        "/users/{id}/": {"get": {"tags": ["用户"], "summary": "获取指定用户信息", "responses": {"200": {"description": "获取成功"}, "404": {"description": "用户不存在"}}}},
        "/users/me/": {"get": {"security": [{"TokenAuth": []}], "tags": ["用户"], "summary": "获取当前用户信息", "responses": {"200": {"description": "获取成功"}}}},
        "/users/me/avatar/": {
            "put": {"security": [{"TokenAuth": []}], "tags": ["用户"], "summary": "上传头像", "responses": {"200": {"description": "上传成功"}}},
            "delete": {"security": [{"TokenAuth": []}], "tags": ["用户"], "summary": "删除头像", "responses": {"204": {"description": "删除成功"}}}
        },
        "/users/set_password/": {"post": {"security": [{"TokenAuth": []}], "tags": ["用户"], "summary": "修改密码", "responses": {"204": {"description": "修改成功"}}}},
        "/users/subscriptions/": {"get": {"security": [{"TokenAuth": []}], "tags": ["订阅"], "summary": "当前用户订阅的作者", "responses": {"200": {"description": "获取成功"}}}},
        "/users/{id}/subscribe/": {
            "post": {"security": [{"TokenAuth": []}], "tags": ["订阅"], "summary": "订阅作者", "responses": {"201": {"description": "订阅成功"}, "400": {"description": "不能订阅自己/已订阅"}}},
            "delete": {"security": [{"TokenAuth": []}], "tags": ["订阅"], "summary": "取消订阅", "responses": {"204": {"description": "取消成功"}}}
        },
        "/tags/": {"get": {"tags": ["标签"], "summary": "标签列表", "responses": {"200": {"description": "获取成功"}}}},
        "/tags/{id}/": {"get": {"tags": ["标签"], "summary": "标签详情", "responses": {"200": {"description": "获取成功"}}}},
        "/ingredients/": {"get": {"tags": ["食材"], "summary": "食材列表", "responses": {"200": {"description": "获取成功"}}}},
        "/ingredients/{id}/": {"get": {"tags": ["食材"], "summary": "食材详情", "responses": {"200": {"description": "获取成功"}}}},
        "/recipes/": {
            "get": {"tags": ["菜谱"], "summary": "菜谱列表", "responses": {"200": {"description": "获取成功"}}},
            "post": {"security": [{"TokenAuth": []}], "tags": ["菜谱"], "summary": "创建菜谱", "responses": {"201": {"description": "创建成功"}, "400": {"description": "请求参数无效"}}}
        },
        "/recipes/{id}/": {
            "get": {"tags": ["菜谱"], "summary": "菜谱详情", "responses": {"200": {"description": "获取成功"}}},
            "put": {"security": [{"TokenAuth": []}], "tags": ["菜谱"], "summary": "更新菜谱（仅作者）", "responses": {"200": {"description": "更新成功"}, "403": {"description": "不是作者"}}},
            "patch": {"security": [{"TokenAuth": []}], "tags": ["菜谱"], "summary": "更新菜谱（仅作者）", "responses": {"200": {"description": "更新成功"}, "403": {"description": "不是作者"}}},
            "delete": {"security": [{"TokenAuth": []}], "tags": ["菜谱"], "summary": "删除菜谱（仅作者）", "responses": {"204": {"description": "删除成功"}}}
        },
        "/recipes/{id}/get-link/": {"get": {"tags": ["菜谱"], "summary": "获取菜谱短链", "responses": {"200": {"description": "获取成功"}}}},
        "/recipes/{id}/favorite/": {
            "post": {"security": [{"TokenAuth": []}], "tags": ["收藏"], "summary": "收藏菜谱", "responses": {"201": {"description": "收藏成功"}}},
            "delete": {"security": [{"TokenAuth": []}], "tags": ["收藏"], "summary": "取消收藏", "responses": {"204": {"description": "取消成功"}}}
        },
        "/recipes/{id}/shopping_cart/": {
            "post": {"security": [{"TokenAuth": []}], "tags": ["购物清单"], "summary": "加入购物清单", "responses": {"201": {"description": "添加成功"}}},
            "delete": {"security": [{"TokenAuth": []}], "tags": ["购物清单"], "summary": "移出购物清单", "responses": {"204": {"description": "移除成功"}}}
        },
        "/recipes/download_shopping_cart/": {"get": {"security": [{"TokenAuth": []}], "produces": ["text/plain"], "tags": ["购物清单"], "summary": "下载购物清单", "responses": {"200": {"description": "购物清单文本"}, "400": {"description": "购物清单为空"}}}},
        "/search/recipes/": {"get": {"tags": ["搜索"], "summary": "搜索菜谱", "responses": {"200": {"description": "搜索成功"}}}}
    },
    "securityDefinitions": {
        "TokenAuth": {
            "description": "输入格式: Token {token}",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Foodgram API",
	Description:      "菜谱分享平台 API 服务",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
