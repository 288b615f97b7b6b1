package routes

import (
	"net/http"

	"nefllix/src/config"
	"nefllix/src/middleware"
	auth "nefllix/src/modules/auth/controllers"
	files "nefllix/src/modules/files/controllers"
	library "nefllix/src/modules/library/controllers"
	movies "nefllix/src/modules/movies/controllers"
	profiles "nefllix/src/modules/profiles/controllers"
	shows "nefllix/src/modules/shows/controllers"
	users "nefllix/src/modules/users/controllers"
	"nefllix/src/services"

	"github.com/gin-gonic/gin"
)

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func ready(c *gin.Context) {
	if config.CheckConnection() {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	} else {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
	}
}

func RegisterRoutes(router *gin.Engine) {
	router.GET("/healthz", health)
	router.GET("/readyz", ready)

	// Progress socket, authenticated from query parameters
	router.GET("/ws", services.WebSocketHandler)

	api := router.Group("/api/v1")
	api.GET("healthz", health)
	api.GET("readyz", ready)

	requireSession := middleware.RequireSession()
	requireAdmin := middleware.RequireAdminKey()

	// Auth Routes
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("register", auth.Register)
		authRoutes.POST("login", auth.Login)
		authRoutes.POST("logout", auth.Logout)
		authRoutes.POST("verify", auth.Verify)
		authRoutes.POST("verification-tokens", requireAdmin, auth.CreateVerificationToken)
		authRoutes.POST("oauth", requireAdmin, auth.OAuthSignIn)

		authRoutes.GET("session", requireSession, auth.GetSession)
		authRoutes.GET("sessions", requireSession, auth.ListSessions)
		authRoutes.DELETE("sessions", requireSession, auth.RevokeOtherSessions)
		authRoutes.GET("accounts", requireSession, auth.ListAccounts)
		authRoutes.POST("accounts", requireSession, auth.LinkAccount)
		authRoutes.DELETE("accounts/:provider/:providerAccountId", requireSession, auth.UnlinkAccount)
	}

	// User Routes
	userRoutes := api.Group("/users", requireSession)
	{
		userRoutes.GET("me", users.GetMe)
		userRoutes.PATCH("me", users.UpdateMe)
		userRoutes.PUT("me/password", users.ChangePassword)
		userRoutes.DELETE("me", users.DeleteMe)
	}

	adminRoutes := api.Group("/admin", requireAdmin)
	{
		adminRoutes.GET("users", users.FindUser)
		adminRoutes.GET("users/count", users.CountUsers)
	}

	// Profile Routes
	profileRoutes := api.Group("/profiles", requireSession)
	{
		profileRoutes.GET("", profiles.ListProfiles)
		profileRoutes.POST("", profiles.CreateProfile)
		profileRoutes.GET(":profileId", profiles.GetProfile)
		profileRoutes.POST(":profileId/unlock", profiles.UnlockProfile)

		guarded := profileRoutes.Group(":profileId", middleware.RequireProfileAccess())
		guarded.PATCH("", profiles.UpdateProfile)
		guarded.DELETE("", profiles.DeleteProfile)
		guarded.PUT("pin", profiles.SetPin)
		guarded.DELETE("pin", profiles.RemovePin)

		// Library Routes
		guarded.GET("favourites", library.ListFavourites)
		guarded.POST("favourites", library.AddFavourite)
		guarded.DELETE("favourites/:contentId", library.RemoveFavourite)
		guarded.GET("watched", library.ListWatched)
		guarded.POST("watched", library.MarkWatched)
		guarded.DELETE("watched/:contentId", library.UnmarkWatched)
		guarded.GET("watching", library.ContinueWatching)
		guarded.PUT("watching", library.UpdateProgress)
		guarded.GET("watching/:contentId", library.GetProgress)
		guarded.DELETE("watching/:contentId", library.RemoveWatching)
		guarded.GET("summary", library.GetSummary)
		guarded.GET("library/:contentId", library.GetContentStatus)
	}

	// Movie Routes
	movieRoutes := api.Group("/movies")
	{
		movieRoutes.POST("list", movies.GetMovieList)
		movieRoutes.POST("search", movies.SearchMovies)
		movieRoutes.GET("random", movies.GetRandomMovie)
		movieRoutes.GET("genres", movies.ListGenres)
		movieRoutes.GET("stats", movies.GetMovieStats)
		movieRoutes.GET(":id", movies.GetMovie)

		movieRoutes.POST("", requireAdmin, movies.CreateMovie)
		movieRoutes.PUT(":id", requireAdmin, movies.UpdateMovie)
		movieRoutes.DELETE(":id", requireAdmin, movies.DeleteMovie)
	}

	// Show Routes
	showRoutes := api.Group("/shows")
	{
		showRoutes.POST("list", shows.GetShowList)
		showRoutes.GET(":id", shows.GetShow)
		showRoutes.GET(":id/seasons/:season/episodes/:episode", shows.GetEpisode)
		showRoutes.GET(":id/seasons/:season/episodes/:episode/next", shows.GetNextEpisode)

		showRoutes.POST("", requireAdmin, shows.CreateShow)
		showRoutes.PUT(":id", requireAdmin, shows.UpdateShow)
		showRoutes.DELETE(":id", requireAdmin, shows.DeleteShow)
		showRoutes.POST(":id/seasons", requireAdmin, shows.AddSeason)
	}

	seasonRoutes := api.Group("/seasons", requireAdmin)
	{
		seasonRoutes.PUT(":seasonId", shows.UpdateSeason)
		seasonRoutes.DELETE(":seasonId", shows.DeleteSeason)
		seasonRoutes.POST(":seasonId/episodes", shows.AddEpisode)
	}

	episodeRoutes := api.Group("/episodes", requireAdmin)
	{
		episodeRoutes.PUT(":episodeId", shows.UpdateEpisode)
		episodeRoutes.DELETE(":episodeId", shows.DeleteEpisode)
	}

	// Static Proxy MinIO
	api.GET("/static/*filepath", files.FileController)
	api.POST("/files", requireAdmin, files.UploadController)
}
