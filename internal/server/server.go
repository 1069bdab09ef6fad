package server

import (
	"context"
	"net/http"
	"time"

	"github.com/SahilxSingh/EduConnect/internal/agent"
	"github.com/SahilxSingh/EduConnect/internal/agent/agents"
	"github.com/SahilxSingh/EduConnect/internal/agent/providers"
	"github.com/SahilxSingh/EduConnect/internal/bootstrap"
	"github.com/SahilxSingh/EduConnect/internal/config"
	"github.com/SahilxSingh/EduConnect/internal/middleware"
	"github.com/SahilxSingh/EduConnect/pkg/ratelimiter"
	"github.com/SahilxSingh/EduConnect/pkg/storage"

	aiHttp "github.com/SahilxSingh/EduConnect/internal/modules/ai/delivery/http"
	aiService "github.com/SahilxSingh/EduConnect/internal/modules/ai/service"

	assignmentHttp "github.com/SahilxSingh/EduConnect/internal/modules/assignment/delivery/http"
	assignmentRepo "github.com/SahilxSingh/EduConnect/internal/modules/assignment/repository"
	assignmentService "github.com/SahilxSingh/EduConnect/internal/modules/assignment/service"

	attachmentHttp "github.com/SahilxSingh/EduConnect/internal/modules/attachment/delivery/http"
	attachmentRepo "github.com/SahilxSingh/EduConnect/internal/modules/attachment/repository"
	attachmentService "github.com/SahilxSingh/EduConnect/internal/modules/attachment/service"

	chatHttp "github.com/SahilxSingh/EduConnect/internal/modules/chat/delivery/http"
	chatRepo "github.com/SahilxSingh/EduConnect/internal/modules/chat/repository"
	chatService "github.com/SahilxSingh/EduConnect/internal/modules/chat/service"

	courseHttp "github.com/SahilxSingh/EduConnect/internal/modules/course/delivery/http"
	courseRepo "github.com/SahilxSingh/EduConnect/internal/modules/course/repository"
	courseService "github.com/SahilxSingh/EduConnect/internal/modules/course/service"

	followHttp "github.com/SahilxSingh/EduConnect/internal/modules/follow/delivery/http"
	followRepo "github.com/SahilxSingh/EduConnect/internal/modules/follow/repository"
	followService "github.com/SahilxSingh/EduConnect/internal/modules/follow/service"

	noticeHttp "github.com/SahilxSingh/EduConnect/internal/modules/notice/delivery/http"
	noticeRepo "github.com/SahilxSingh/EduConnect/internal/modules/notice/repository"
	noticeService "github.com/SahilxSingh/EduConnect/internal/modules/notice/service"

	notiHttp "github.com/SahilxSingh/EduConnect/internal/modules/notification/delivery/http"
	notifRepo "github.com/SahilxSingh/EduConnect/internal/modules/notification/repository"
	notifService "github.com/SahilxSingh/EduConnect/internal/modules/notification/service"

	postHttp "github.com/SahilxSingh/EduConnect/internal/modules/post/delivery/http"
	postRepo "github.com/SahilxSingh/EduConnect/internal/modules/post/repository"
	postService "github.com/SahilxSingh/EduConnect/internal/modules/post/service"

	queryHttp "github.com/SahilxSingh/EduConnect/internal/modules/query/delivery/http"
	queryRepo "github.com/SahilxSingh/EduConnect/internal/modules/query/repository"
	queryService "github.com/SahilxSingh/EduConnect/internal/modules/query/service"

	reactionHttp "github.com/SahilxSingh/EduConnect/internal/modules/reaction/delivery/http"
	reactionRepo "github.com/SahilxSingh/EduConnect/internal/modules/reaction/repository"
	reactionService "github.com/SahilxSingh/EduConnect/internal/modules/reaction/service"

	statHttp "github.com/SahilxSingh/EduConnect/internal/modules/stat/delivery/http"
	statRepo "github.com/SahilxSingh/EduConnect/internal/modules/stat/repository"
	statService "github.com/SahilxSingh/EduConnect/internal/modules/stat/service"

	searchHttp "github.com/SahilxSingh/EduConnect/internal/modules/search/delivery/http"
	searchService "github.com/SahilxSingh/EduConnect/internal/modules/search/service"

	userHttp "github.com/SahilxSingh/EduConnect/internal/modules/user/delivery/http"
	userRepo "github.com/SahilxSingh/EduConnect/internal/modules/user/repository"
	userService "github.com/SahilxSingh/EduConnect/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Deps are the process-level clients the server is built from. Redis,
// Search, Storage and the AI providers are optional.
type Deps struct {
	Config      *config.Config
	DB          *gorm.DB
	Redis       *redis.Client
	Search      meilisearch.ServiceManager
	Storage     storage.MediaStorage
	AIProviders []aiService.Provider
	AIModels    aiService.ModelLister
	Log         zerolog.Logger
}

type Server struct {
	engine    *gin.Engine
	db        *gorm.DB
	scheduler *agent.Scheduler
	log       zerolog.Logger
}

func NewServer(ctx context.Context, deps Deps) (*Server, error) {
	cfg := deps.Config
	db := deps.DB
	redisClient := deps.Redis
	log := deps.Log
	limiter := ratelimiter.New(redisClient)

	userRepository := userRepo.NewUserRepository(db)
	userSvc := userService.NewUserService(userRepository)
	userHandler := userHttp.NewUserHandler(userSvc)

	courseSvc := courseService.NewCourseService(courseRepo.NewCourseRepository(db))
	courseHandler := courseHttp.NewCourseHandler(courseSvc)
	if err := bootstrap.SeedCourses(ctx, courseSvc); err != nil {
		return nil, err
	}

	searchSvc := searchService.NewMeiliSearchService(deps.Search, log.With().Str("component", "search").Logger())
	searchSvc.EnsureIndexes()
	searchHandler := searchHttp.NewSearchHandler(searchSvc)

	// Notification Module
	notificationRepository := notifRepo.NewNotificationRepository(db)
	notificationSvc := notifService.NewNotificationService(notificationRepository, userSvc, redisClient, log.With().Str("component", "notification").Logger())
	notificationHandler := notiHttp.NewNotificationHandler(notificationSvc, redisClient, log)

	attachmentSvc := attachmentService.NewAttachmentService(attachmentRepo.NewAttachmentRepository(db), userSvc, deps.Storage, cfg.MaxUploadBytes, log.With().Str("component", "attachment").Logger())
	attachmentHandler := attachmentHttp.NewAttachmentHandler(attachmentSvc)

	postRepository := postRepo.NewPostRepository(db)
	reactionRepository := reactionRepo.NewReactionRepository(db)

	postSvc := postService.NewPostService(postRepository, reactionRepository, userSvc, notificationSvc, searchSvc, attachmentSvc, limiter, cfg.RateLimitPost, log.With().Str("component", "post").Logger())
	postHandler := postHttp.NewPostHandler(postSvc)

	reactionSvc := reactionService.NewReactionService(reactionRepository, postRepository, userSvc, notificationSvc, log.With().Str("component", "reaction").Logger())
	reactionHandler := reactionHttp.NewReactionHandler(reactionSvc)

	followSvc := followService.NewFollowService(followRepo.NewFollowRepository(db), userSvc)
	followHandler := followHttp.NewFollowHandler(followSvc)

	assignmentSvc := assignmentService.NewAssignmentService(assignmentRepo.NewAssignmentRepository(db), userSvc, userRepository)
	assignmentHandler := assignmentHttp.NewAssignmentHandler(assignmentSvc)

	noticeSvc := noticeService.NewNoticeService(noticeRepo.NewNoticeRepository(db), userSvc, searchSvc, log.With().Str("component", "notice").Logger())
	noticeHandler := noticeHttp.NewNoticeHandler(noticeSvc)

	querySvc := queryService.NewQueryService(queryRepo.NewQueryRepository(db), userSvc, notificationSvc, log.With().Str("component", "query").Logger())
	queryHandler := queryHttp.NewQueryHandler(querySvc)

	chatSvc := chatService.NewChatService(chatRepo.NewChatRepository(db), userSvc, redisClient, log.With().Str("component", "chat").Logger())
	chatHandler := chatHttp.NewChatHandler(chatSvc, redisClient, log)

	statHandler := statHttp.NewStatHandler(statService.NewStatService(statRepo.NewStatRepository(db)))

	aiSvc := aiService.NewAIService(aiService.Options{
		Providers: deps.AIProviders,
		Lister:    deps.AIModels,
		Limiter:   limiter,
		Cooldown:  cfg.RateLimitAsk,
		Debug:     !cfg.IsProduction(),
	}, log.With().Str("component", "ai").Logger())
	aiHandler := aiHttp.NewAIHandler(aiSvc)

	scheduler, err := newScheduler(cfg, redisClient, noticeSvc, assignmentSvc, notificationSvc, attachmentSvc, log)
	if err != nil {
		return nil, err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	setupCORS(router, cfg.Origins)

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log, "/health"))

	authMiddleware := middleware.NewAuthMiddleware(middleware.NewVerifier(cfg.ClerkSecretKey, cfg.JWTSecret), log)

	router.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	// Public routes (no auth required)
	public := api.Group("")
	public.Use(authMiddleware.OptionalAuth())
	{
		public.POST("/register", userHandler.Register)
		public.GET("/courses", courseHandler.ListCourses)
		public.GET("/teachers", userHandler.ListTeachers)
		public.GET("/feed", postHandler.GetFeed)
		public.GET("/notices", noticeHandler.List)
		public.GET("/search", searchHandler.Search)
		public.GET("/stats", statHandler.GetStats)
		public.POST("/ai/ask-doubt", aiHandler.AskDoubt)

		// assignment routes carry the caller ids in the request
		public.POST("/assignments", assignmentHandler.Create)
		public.GET("/assignments", assignmentHandler.ListForTeacher)
		public.GET("/assignments/:assignmentId/submissions", assignmentHandler.ListSubmissions)

		public.GET("/users/:userId", userHandler.GetUser)
		public.GET("/users/:userId/posts", postHandler.GetUserPosts)
		public.GET("/users/:userId/followers", followHandler.Followers)
		public.GET("/users/:userId/following", followHandler.Following)
	}

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/users/me", userHandler.GetMe)
		protected.PUT("/users/me", userHandler.UpdateMe)
		protected.POST("/users/:userId/follow", followHandler.Follow)
		protected.DELETE("/users/:userId/follow", followHandler.Unfollow)

		protected.POST("/posts", postHandler.CreatePost)
		protected.POST("/posts/:postId/comments", postHandler.AddComment)
		protected.POST("/posts/:postId/like", reactionHandler.ToggleLike)
		protected.POST("/uploads", attachmentHandler.UploadAttachment)

		protected.GET("/assignments/student", assignmentHandler.ListForStudent)
		protected.POST("/assignments/:assignmentId/submissions", assignmentHandler.Submit)

		protected.POST("/notices", noticeHandler.Create)

		protected.POST("/queries", queryHandler.Submit)
		protected.GET("/queries/teacher", queryHandler.ListForTeacher)
		protected.GET("/queries/student", queryHandler.ListForStudent)
		protected.POST("/queries/:queryId/answer", queryHandler.Answer)

		protected.POST("/chats", chatHandler.Start)
		protected.GET("/chats", chatHandler.UserChats)
		protected.POST("/chats/:chatId/messages", chatHandler.Send)
		protected.GET("/chats/:chatId/messages", chatHandler.Messages)
		protected.GET("/chats/:chatId/ws", chatHandler.Stream)

		// Notification routes
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)
	}

	return &Server{
		engine:    router,
		db:        db,
		scheduler: scheduler,
		log:       log,
	}, nil
}

func newScheduler(
	cfg *config.Config,
	redisClient *redis.Client,
	notices noticeService.NoticeService,
	assignments assignmentService.AssignmentService,
	notifier notifService.Notifier,
	attachments attachmentService.AttachmentService,
	log zerolog.Logger,
) (*agent.Scheduler, error) {
	scheduler := agent.NewScheduler(10*time.Minute, log.With().Str("component", "agent").Logger())

	var tracker providers.Tracker
	if redisClient != nil {
		tracker = providers.NewRedisTracker(redisClient)
	}

	var toRegister []agent.Agent
	if cfg.NoticeFeedURL != "" {
		noticeConfig := agents.DefaultNoticeImportConfig()
		noticeConfig.FeedURL = cfg.NoticeFeedURL
		noticeConfig.Schedule = cfg.NoticeFeedSchedule
		toRegister = append(toRegister, agents.NewNoticeImportAgent(providers.NewRSSFetcher(), providers.NewWebScraper(), notices, tracker, noticeConfig, log))
	}

	// without a tracker every run would repeat the same reminders
	if tracker != nil {
		reminderConfig := agents.DefaultAssignmentReminderConfig()
		reminderConfig.Schedule = cfg.ReminderSchedule
		toRegister = append(toRegister, agents.NewAssignmentReminderAgent(assignments, notifier, tracker, reminderConfig, log))
	} else {
		log.Warn().Msg("redis unavailable, assignment reminders disabled")
	}
	toRegister = append(toRegister, agents.NewAttachmentCleanupAgent(attachments, cfg.CleanupSchedule, 24*time.Hour, log))

	for _, a := range toRegister {
		if err := scheduler.RegisterAgent(a); err != nil {
			return nil, err
		}
	}
	return scheduler, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// StartAgents starts the background agent scheduler.
func (s *Server) StartAgents() {
	s.scheduler.Start()
}

// Shutdown stops the agents, waiting for running jobs until ctx is done.
func (s *Server) Shutdown(ctx context.Context) {
	s.scheduler.Stop(ctx)
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
