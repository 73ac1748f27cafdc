package handlers

import (
	"github.com/labstack/echo/v4"
)

// Register mounts every page and API route on e
func Register(e *echo.Echo, deps Dependencies) {
	api := NewAPIHandler(deps)
	auth := NewAuthHandler(deps.Users)
	pages := NewPageHandler(deps)
	dexcom := NewDexcomHandler(deps)

	apiUser := RequireUserAPI(deps.Users)
	pageUser := RequireUserPage(deps.Users)

	// public
	e.GET("/", auth.LoginPage)
	e.GET("/register", auth.RegisterPage)
	e.GET("/logout", auth.Logout)
	e.GET("/api/", api.Index)
	e.GET("/api/json", api.JSONTest)
	e.POST("/api/user_login", auth.Login)
	e.POST("/api/user_register", auth.Register)

	// JSON API
	e.POST("/api/chat", api.Chat, apiUser)
	e.POST("/api/analyze_image", api.AnalyzeImage, apiUser)
	e.GET("/api/get_glucose", api.GetGlucose, apiUser)
	e.POST("/api/glucose", api.AddGlucose, apiUser)
	e.GET("/api/get_advice", api.GetAdvice, apiUser)
	e.GET("/api/log_entries", api.LogEntries, apiUser)
	e.POST("/api/food_entry", api.FoodEntry, apiUser)
	e.POST("/api/exercise_entry", api.ExerciseEntry, apiUser)
	e.POST("/api/log_entries/toggle_star", api.ToggleStar, apiUser)
	e.GET("/api/dexcom_login", dexcom.Login, apiUser)
	e.GET("/api/dexcom_callback", dexcom.Callback, apiUser)

	// pages and partials
	app := e.Group("/app", pageUser)
	app.GET("/dashboard", pages.Dashboard)
	app.GET("/advice", pages.Advice)
	app.POST("/markers", pages.Marker)
	app.POST("/glucose", pages.AddGlucose)
	app.POST("/dexcom/sync", dexcom.Sync)
	app.GET("/logs", pages.Logs)
	app.GET("/logs/list", pages.LogList)
	app.GET("/logs/new", pages.NewLog)
	app.POST("/logs", pages.CreateLog)
	app.POST("/logs/analyze", pages.AnalyzeLog)
	app.GET("/logs/:id", pages.LogDetails)
	app.POST("/logs/:id/star", pages.ToggleStar)
	app.GET("/starred", pages.Starred)
	app.GET("/chat", pages.Chat)
	app.POST("/chat/send", pages.ChatSend)
	app.POST("/chat/reset", pages.ChatReset)
}
