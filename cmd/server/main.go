package main

import (
	"github.com/gin-gonic/gin"

	"github.com/workbenchflow/workbench-api/internal/config"
	"github.com/workbenchflow/workbench-api/internal/database"
	"github.com/workbenchflow/workbench-api/internal/handlers"
	"github.com/workbenchflow/workbench-api/internal/logging"
	"github.com/workbenchflow/workbench-api/internal/mailer"
	"github.com/workbenchflow/workbench-api/internal/middleware"
	"github.com/workbenchflow/workbench-api/internal/repository"
	"github.com/workbenchflow/workbench-api/internal/services"
	"github.com/workbenchflow/workbench-api/internal/token"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logging.New(cfg.GinMode)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	otpRepo := repository.NewOtpRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	markRepo := repository.NewMarkRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	pinRepo := repository.NewPinRepository(db)
	fileRepo := repository.NewFileRepository(db)

	// Services
	tokens := token.NewManager([]byte(cfg.TokenSecret), cfg.TokenIssuer, cfg.TokenTTL)
	mail := mailer.NewSMTPMailer(cfg, log)
	otpService := services.NewOtpService(userRepo, otpRepo, cfg.OtpTTL, cfg.OtpResendCooldown, log)
	authService := services.NewAuthService(userRepo, otpService, mail, tokens, cfg.MailTimeout, log)
	userService := services.NewUserService(userRepo, log)
	accessService := services.NewAccessService(projectRepo, taskRepo)
	projectService := services.NewProjectService(projectRepo, userRepo, accessService, log)
	taskService := services.NewTaskService(taskRepo, userRepo, accessService, log)
	markService := services.NewMarkService(markRepo, taskRepo, accessService, log)
	commentService := services.NewCommentService(commentRepo, taskService, log)
	pinService := services.NewPinService(pinRepo, taskService)
	fileService := services.NewFileService(fileRepo, taskService, cfg.UploadDir, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	groupHandler := handlers.NewTaskGroupHandler(taskService)
	taskHandler := handlers.NewTaskHandler(taskService)
	markHandler := handlers.NewMarkHandler(markService)
	commentHandler := handlers.NewCommentHandler(commentService)
	pinHandler := handlers.NewPinHandler(pinService)
	fileHandler := handlers.NewFileHandler(fileService)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Workbench Flow API is running",
		})
	})

	requireAuth := middleware.RequireAuth(tokens, userRepo)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public except /me)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/confirm-otp", authHandler.ConfirmOtp)
			auth.POST("/again-otp", authHandler.ResendOtp)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", requireAuth, authHandler.Me)
		}

		// User routes (protected)
		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/:id", userHandler.GetUser)
			users.PATCH("/me", userHandler.UpdateMe)
			users.DELETE("/me", userHandler.DeleteMe)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(requireAuth)
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/my", projectHandler.ListMyProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PATCH("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)

			projects.POST("/:id/members", projectHandler.AddMember)
			projects.GET("/:id/members", projectHandler.ListMembers)
			projects.PATCH("/:id/members/:memberId", projectHandler.UpdateMember)
			projects.DELETE("/:id/members/:memberId", projectHandler.RemoveMember)

			projects.POST("/:id/roles", projectHandler.CreateRole)
			projects.GET("/:id/roles", projectHandler.ListRoles)
			projects.PATCH("/:id/roles/:roleId", projectHandler.UpdateRole)
			projects.DELETE("/:id/roles/:roleId", projectHandler.DeleteRole)

			projects.POST("/:id/groups", groupHandler.CreateGroup)
			projects.GET("/:id/groups", groupHandler.ListGroups)
			projects.GET("/:id/tasks", taskHandler.ListProjectTasks)
		}

		// Task group routes (protected)
		groups := api.Group("/groups")
		groups.Use(requireAuth)
		{
			groups.PATCH("/:id", groupHandler.RenameGroup)
			groups.DELETE("/:id", groupHandler.DeleteGroup)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/my", taskHandler.ListMyTasks)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/close", taskHandler.CloseTask)
			tasks.POST("/:id/reopen", taskHandler.ReopenTask)

			tasks.POST("/:id/marks", markHandler.CreateMark)
			tasks.GET("/:id/marks", markHandler.ListMarks)

			tasks.POST("/:id/comments", commentHandler.CreateComment)
			tasks.GET("/:id/comments", commentHandler.ListComments)

			tasks.POST("/:id/pin", pinHandler.PinTask)
			tasks.DELETE("/:id/pin", pinHandler.UnpinTask)

			tasks.POST("/:id/files", fileHandler.AttachFile)
			tasks.GET("/:id/files", fileHandler.ListAttachments)
			tasks.DELETE("/:id/files/:fileId", fileHandler.DetachFile)
		}

		// Task state routes (protected)
		api.GET("/task-states", requireAuth, taskHandler.ListStates)

		// Mark routes (protected)
		marks := api.Group("/marks")
		marks.Use(requireAuth)
		{
			marks.PATCH("/:id", markHandler.UpdateMark)
			marks.DELETE("/:id", markHandler.DeleteMark)
		}

		// Comment routes (protected)
		comments := api.Group("/comments")
		comments.Use(requireAuth)
		{
			comments.PATCH("/:id", commentHandler.UpdateComment)
			comments.DELETE("/:id", commentHandler.DeleteComment)
		}

		// Pin routes (protected)
		api.GET("/pins", requireAuth, pinHandler.ListPins)

		// File routes. Download stays public; the generated tag name is
		// the only handle to the file.
		files := api.Group("/files")
		{
			files.POST("", requireAuth, fileHandler.UploadFile)
			files.GET("/:tagName", fileHandler.DownloadFile)
		}
	}

	// Start server
	log.Info().Str("addr", cfg.ListenAddr).Msg("server starting")
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
