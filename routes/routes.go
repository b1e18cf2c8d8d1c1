package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/goodypm20014-source/hapche-social/controllers"
	"github.com/goodypm20014-source/hapche-social/middlewares"
)

// Controllers bundles the handler set the router mounts.
type Controllers struct {
	Auth          *controllers.AuthController
	Profile       *controllers.ProfileController
	Scans         *controllers.ScanController
	Favorites     *controllers.FavoritesController
	Stacks        *controllers.StackController
	Social        *controllers.SocialController
	Messages      *controllers.MessageController
	Notifications *controllers.NotificationController
	Devices       *controllers.DeviceController
	Realtime      *controllers.RealtimeController
	Dev           *controllers.DevController
}

func SetupRouter(h Controllers) *gin.Engine {
	r := gin.Default()

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/session", h.Auth.Session)
		auth.POST("/register", h.Auth.Register)
	}

	// Everything below carries a device-session token
	api := r.Group("/")
	api.Use(middlewares.AuthMiddleware())

	user := api.Group("/user")
	{
		user.GET("/profile", h.Profile.GetProfile)
		user.PUT("/profile", h.Profile.UpdateProfile)
		user.GET("/capabilities", h.Profile.Capabilities)
		user.POST("/onboarding/complete", h.Profile.CompleteOnboarding)
		user.POST("/subscribe", h.Profile.Subscribe)
		user.PUT("/profile-card", h.Profile.UpdateProfileCard)
	}

	scans := api.Group("/scans")
	{
		scans.POST("", h.Scans.Create)
		scans.GET("", h.Scans.List)
		scans.GET("/:id", h.Scans.Get)
	}

	favorites := api.Group("/favorites")
	{
		favorites.POST("", h.Favorites.Create)
		favorites.GET("", h.Favorites.List)
		favorites.DELETE("/:id", h.Favorites.Delete)
	}

	stacks := api.Group("/stacks")
	{
		stacks.POST("", h.Stacks.Create)
		stacks.GET("", h.Stacks.List)
		stacks.GET("/:id", h.Stacks.Get)
		stacks.DELETE("/:id", h.Stacks.Delete)
		stacks.POST("/:id/public", h.Stacks.TogglePublic)
		stacks.POST("/:id/like", h.Stacks.Like)
		stacks.DELETE("/:id/like", h.Stacks.Unlike)
		stacks.POST("/:id/follow", h.Stacks.Follow)
		stacks.DELETE("/:id/follow", h.Stacks.Unfollow)
		stacks.POST("/:id/comments", h.Stacks.Comment)
		stacks.PUT("/:id/reminders", h.Stacks.UpdateReminders)
	}
	api.GET("/feed", h.Stacks.Feed)

	friends := api.Group("/friends")
	{
		friends.POST("", h.Social.SendFriendRequest)
		friends.POST("/:id/accept", h.Social.AcceptFriendRequest)
		friends.DELETE("/:id", h.Social.RemoveFriend)
		friends.GET("", h.Social.ListFriends)
	}

	users := api.Group("/users")
	{
		users.POST("/:id/follow", h.Social.FollowUser)
		users.DELETE("/:id/follow", h.Social.UnfollowUser)
	}

	messages := api.Group("/messages")
	{
		messages.POST("", h.Messages.Send)
		messages.POST("/:id/read", h.Messages.MarkRead)
		messages.GET("/unread-count", h.Messages.UnreadCount)
	}
	api.GET("/conversations", h.Messages.Conversations)
	api.GET("/conversations/:userId", h.Messages.Transcript)

	notifications := api.Group("/notifications")
	{
		notifications.GET("", h.Notifications.List)
		notifications.POST("/:id/read", h.Notifications.MarkRead)
		notifications.GET("/unread-count", h.Notifications.UnreadCount)
		notifications.POST("/toggle", h.Notifications.Toggle)
	}

	api.POST("/devices", h.Devices.Register)
	api.GET("/ws/events", h.Realtime.EventsWS)

	dev := api.Group("/dev")
	{
		dev.POST("/tier", h.Dev.SetTier)
		dev.POST("/push-test", h.Dev.PushTest)
	}

	return r
}
