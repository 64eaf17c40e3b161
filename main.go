package main

import (
	"log"
	"net/http"
	"os"

	"hackhub/internal"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

func main() {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	db := internal.MustDB(dbURL)
	defer db.Close()
	internal.Migrate(db)

	internal.RegisterMetrics()

	r := gin.Default()
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", internal.Health(db))

		// users/auth
		api.POST("/users", internal.Register(db))
		api.POST("/users/login", internal.Login(db, secret))
		api.POST("/users/logout", internal.Logout())
		api.GET("/users", internal.ListUsers(db))
		api.GET("/users/:email", internal.GetUser(db))
		api.GET("/me", internal.Auth(secret), internal.Me(db))

		// events
		api.POST("/events", internal.CreateEvent(db))
		api.GET("/events", internal.ListEvents(db))
		api.POST("/events/:eventId/join", internal.JoinEvent(db))
		api.GET("/events/:eventId/leaderboard", internal.Leaderboard(db))
		api.GET("/events/:eventId/stats", internal.EventStats(db))
		api.GET("/analytics/:eventId", internal.EventAnalytics(db))

		// projects
		api.POST("/projects", internal.CreateProject(db, false))
		api.POST("/projects/submit", internal.CreateProject(db, true)) // submission form requires a link
		api.GET("/projects", internal.ListProjects(db))

		// ratings
		api.POST("/ratings", internal.CreateRating(db))
		api.PUT("/ratings/:id", internal.UpdateRating(db))
		api.GET("/ratings", internal.ListRatings(db))
		api.GET("/ratings/project/:projectId", internal.RatingsForProject(db))

		// teams
		api.POST("/teams", internal.CreateTeam(db))
		api.GET("/teams", internal.ListTeams(db))
		api.GET("/teams/event/:eventId", internal.TeamsForEvent(db))
		api.POST("/teams/:teamId/invite", internal.InviteToTeam(db))
		api.POST("/teams/:teamId/join", internal.JoinTeam(db))
		api.POST("/teams/:teamId/add-member", internal.AddTeamMember(db))
		api.DELETE("/teams/:teamId/members/:userId", internal.RemoveTeamMember(db))
		api.PUT("/teams/:teamId/decline-invite/:inviteId", internal.DeclineInvite(db))

		// announcements + Q&A
		api.POST("/announcements", internal.CreateAnnouncement(db))
		api.GET("/announcements", internal.ListAnnouncements(db))
		api.GET("/announcements/:eventId", internal.AnnouncementsForEvent(db))
		api.POST("/questions", internal.CreateQuestion(db))
		api.GET("/questions", internal.ListQuestions(db))
		api.GET("/questions/:eventId", internal.QuestionsForEvent(db))
		api.PUT("/questions/:questionId/answer", internal.AnswerQuestion(db))

		// audit trail, organizers only
		api.GET("/logs", internal.Auth(secret), internal.RequireRole("organizer"), internal.Logs(db))
	}

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	log.Printf("Listening on :%s", port)
	log.Fatal(http.ListenAndServe(":"+port, corsMiddleware.Handler(r)))
}
