package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"course_enrich_backend/internal/config"
	"course_enrich_backend/internal/controller"
	"course_enrich_backend/internal/repository"
	"course_enrich_backend/internal/service"
	"course_enrich_backend/pkg/configwatcher"
	"course_enrich_backend/pkg/database"
	"course_enrich_backend/pkg/logger"
	"course_enrich_backend/pkg/monitoring"
	"course_enrich_backend/pkg/security"
	"course_enrich_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	course     *repository.CourseRepository
	lesson     *repository.LessonRepository
	curriculum *repository.CurriculumRepository
	cache      *repository.CacheRepository
}

type services struct {
	analyzer   *service.AnalyzerService
	videos     *service.VideoService
	youtube    *service.YouTubeService
	durations  *service.DurationService
	hierarchy  *service.HierarchyService
	chapters   *service.ChapterService
	aggregate  *service.AggregateService
	enrichment *service.EnrichmentService
	scheduler  *service.SchedulerService
	content    *service.ContentService
}

type controllers struct {
	enrichment *controller.EnrichmentController
	admin      *controller.AdminController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	durationTTL := time.Duration(cfg.Enrichment.DurationCacheTTLHours) * time.Hour
	return &repositories{
		course:     repository.NewCourseRepository(db),
		lesson:     repository.NewLessonRepository(db),
		curriculum: repository.NewCurriculumRepository(db),
		cache:      repository.NewCacheRepository(rdb, durationTTL),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.analyzer = service.NewAnalyzerService()
	s.videos = service.NewVideoService()
	s.chapters = service.NewChapterService()

	s.youtube = service.NewYouTubeService(cfg.YouTube, repos.cache)

	// 时长来源按优先级注册：YouTube → Vimeo → 自托管文件
	sources := []service.DurationSource{
		s.youtube,
		service.NewVimeoService(cfg.YouTube.Timeout),
		service.NewFileDurationSource(),
	}
	s.durations = service.NewDurationService(s.videos, repos.cache, sources)

	s.hierarchy = service.NewHierarchyService(repos.curriculum)
	s.aggregate = service.NewAggregateService(repos.curriculum, s.durations, repos.course)
	s.enrichment = service.NewEnrichmentService(repos.lesson, s.analyzer, s.videos, s.durations, s.hierarchy, s.chapters)
	s.scheduler = service.NewSchedulerService(
		repos.lesson,
		repos.course,
		repos.curriculum,
		s.analyzer,
		s.videos,
		s.durations,
		s.aggregate,
		repos.cache,
	)
	s.content = service.NewContentService(repos.course, repos.lesson)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		enrichment: controller.NewEnrichmentController(s.enrichment, s.scheduler),
		admin:      controller.NewAdminController(s.content, s.scheduler),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 10000
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks 后台轮询延迟重算队列。
// 队列在Redis里，多实例部署时每个任务只会被一个实例取走
func (a *App) startBackgroundTasks(s *services) {
	go func() {
		ticker := time.NewTicker(a.Config.Enrichment.RecalcPollInterval)
		for range ticker.C {
			if n := s.scheduler.RunPendingJobs(context.Background()); n > 0 {
				logger.Log.Info("延迟重算任务批次完成", zap.Int("processed", n))
			}
		}
	}()
}

// watchConfig 热加载配置：目前只有YouTube的key和配额预算支持运行时更新
func (a *App) watchConfig() {
	a.RegisterConfigCallback(func(cfg *config.Config) {
		a.services.youtube.UpdateCredentials(cfg.YouTube.APIKey, cfg.YouTube.DailyQuotaUnits)
		logger.Log.Info("YouTube配置已热更新")
	})

	go configwatcher.WatchConfig("configs/config.yaml", a.Config, func(newCfg interface{}) {
		cfg, ok := newCfg.(*config.Config)
		if !ok {
			return
		}
		for _, callback := range a.configCallbacks {
			callback(cfg)
		}
	})
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	// 仅迁移模式下不启动其余组件
	if cfg.MigrateOnly {
		return app
	}

	repos := app.initRepositories(db, rdb, cfg)
	services := app.initServices(repos, cfg)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("course-enrichment", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	app.startBackgroundTasks(services)
	app.watchConfig()

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
