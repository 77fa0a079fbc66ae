package handler

import (
	"roundtracker/backend/internal/auth"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the /api/v1 surface on router.
func RegisterRoutes(router gin.IRouter, h *Handler) {
	apiV1 := router.Group("/api/v1")

	// Public catalog
	catalogRoutes := apiV1.Group("/catalog")
	{
		catalogRoutes.GET("/games", h.GetGames)
		catalogRoutes.GET("/maps/:slug", h.GetMapBySlug)
	}

	// Leaderboards mark the viewer's own rows when a token is present
	boardRoutes := apiV1.Group("/leaderboards")
	boardRoutes.Use(auth.OptionalAuthMiddleware())
	{
		boardRoutes.GET("/maps/:slug", h.GetMapLeaderboard)
		boardRoutes.GET("/xp", h.GetXPLeaderboard)
	}

	protected := apiV1.Group("")
	protected.Use(auth.AuthMiddleware())

	// User routes
	userRoutes := protected.Group("/users")
	{
		userRoutes.GET("", h.SearchUsers) // Must be before /:id
		userRoutes.GET("/me", h.GetMe)
		userRoutes.PUT("/me", h.UpsertMe)
		userRoutes.GET("/me/relations", h.GetRelations)
		userRoutes.GET("/:id", h.GetUserByID)

		// Friendship routes
		userRoutes.POST("/:id/request", h.SendRequest)
		userRoutes.POST("/:id/accept", h.AcceptRequest)
		userRoutes.POST("/:id/decline", h.DeclineRequest)
		userRoutes.POST("/:id/remove", h.RemoveRelation)
	}

	messageRoutes := protected.Group("/messages")
	{
		messageRoutes.GET("/:userID", h.GetConversation)
		messageRoutes.POST("/:userID", h.SendMessage)
	}

	notificationRoutes := protected.Group("/notifications")
	{
		notificationRoutes.GET("", h.GetNotifications)
		notificationRoutes.POST("/:id/read", h.MarkNotificationRead)
	}

	logRoutes := protected.Group("/logs")
	{
		logRoutes.POST("/challenges", h.LogChallenge)
		logRoutes.POST("/easter-eggs", h.LogEasterEgg)
		logRoutes.GET("/me", h.GetMyLogs)
	}

	achievementRoutes := protected.Group("/achievements")
	{
		achievementRoutes.GET("/me", h.GetMyAchievements)
		achievementRoutes.POST("/check", h.CheckAchievements)
		achievementRoutes.DELETE("/me/:id", h.RevokeAchievement)
	}

	boxRoutes := protected.Group("/mystery-box")
	{
		boxRoutes.GET("/lobby", h.GetMysteryBoxLobby)
		boxRoutes.GET("/lobby/events", h.StreamLobbyEvents)
		boxRoutes.POST("/lobby/leave", h.LeaveMysteryBoxLobby)
		boxRoutes.DELETE("/lobby/members/:userID", h.KickLobbyMember)
		boxRoutes.POST("/invites", h.InviteToLobby)
		boxRoutes.POST("/invites/:id/accept", h.AcceptLobbyInvite)
		boxRoutes.POST("/invites/:id/decline", h.DeclineLobbyInvite)
		boxRoutes.POST("/spin", h.SpinMysteryBox)
		boxRoutes.POST("/votes", h.StartDiscardVote)
		boxRoutes.POST("/votes/ballot", h.CastBallot)
	}

	lfgRoutes := protected.Group("/lfg")
	{
		lfgRoutes.POST("", h.CreateLfgPost)
		lfgRoutes.GET("", h.SearchLfgPosts)
		lfgRoutes.GET("/:id", h.GetLfgPost)
		lfgRoutes.DELETE("/:id", h.DeleteLfgPost)
	}

	// Admin routes (protected by auth and admin check)
	adminRoutes := apiV1.Group("/admin")
	adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware(h.DB))
	{
		adminRoutes.POST("/logs/challenges/:id/verify", h.VerifyChallengeLog)
		adminRoutes.POST("/logs/easter-eggs/:id/verify", h.VerifyEasterEggLog)
		adminRoutes.POST("/users/:id/recompute-verified-xp", h.RecomputeVerifiedXP)
	}
}
