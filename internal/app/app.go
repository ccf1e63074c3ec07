package app

import (
	"context"
	"course_admin_gateway/internal/backend"
	"course_admin_gateway/internal/config"
	"course_admin_gateway/internal/controller"
	"course_admin_gateway/internal/middleware"
	"course_admin_gateway/internal/model"
	"course_admin_gateway/internal/service"
	"course_admin_gateway/internal/util"
	"course_admin_gateway/pkg/certpdf"
	"course_admin_gateway/pkg/configwatcher"
	"course_admin_gateway/pkg/database"
	"course_admin_gateway/pkg/logger"
	"course_admin_gateway/pkg/monitoring"
	"course_admin_gateway/pkg/security"
	"course_admin_gateway/pkg/tracing"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	Redis  *redis.Client

	services *services
	tracer   *sdktrace.TracerProvider

	mu              sync.Mutex
	configCallbacks []func(*config.Config)
}

type services struct {
	tokens      *service.AdminTokenService
	storage     *service.StorageService
	course      *service.CourseService
	section     *service.SectionService
	lecture     *service.LectureService
	quiz        *service.QuizService
	news        *service.NewsService
	category    *service.CategoryService
	teacher     *service.TeacherService
	user        *service.UserService
	certificate *service.CertificateService
	languages   *model.LanguageRegistry
}

type controllers struct {
	auth        *controller.AuthController
	course      *controller.CourseController
	curriculum  *controller.CurriculumController
	news        *controller.NewsController
	catalog     *controller.CatalogController
	user        *controller.UserController
	certificate *controller.CertificateController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.mu.Unlock()
	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (a *App) initTokenStore(cfg *config.Config) (service.TokenStore, error) {
	if cfg.Token.Store != util.TokenStoreRedis {
		return service.NewMemoryTokenStore(), nil
	}
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		return nil, err
	}
	a.Redis = rdb
	return service.NewRedisTokenStore(rdb, cfg.Token.RedisKey), nil
}

func (a *App) initServices(cfg *config.Config, store service.TokenStore) (*services, error) {
	client := backend.NewClient(cfg.Backend, nil)

	renderer, err := certpdf.New(cfg.Certificate)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("Certificate renderer ready", zap.String("font", renderer.FontName()))

	s := &services{}
	s.languages = model.NewLanguageRegistry(map[model.Language]string{
		model.Azerbaijani: cfg.Languages.AzID,
		model.English:     cfg.Languages.EnID,
		model.Russian:     cfg.Languages.RuID,
	})
	s.tokens = service.NewAdminTokenService(client, store, cfg.Backend, cfg.Token)

	if cfg.Certificate.Archive {
		s.storage = service.NewStorageService(&cfg.Storage)
	}

	s.course = service.NewCourseService(client, s.tokens)
	s.section = service.NewSectionService(client, s.tokens)
	s.lecture = service.NewLectureService(client, s.tokens)
	s.quiz = service.NewQuizService(client, s.tokens)
	s.news = service.NewNewsService(client, s.tokens, s.languages)
	s.category = service.NewCategoryService(client, s.tokens)
	s.teacher = service.NewTeacherService(client, s.tokens)
	s.user = service.NewUserService(client, s.tokens)
	s.certificate = service.NewCertificateService(client, s.tokens, renderer, s.storage, cfg.Certificate.Archive)

	return s, nil
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.tokens),
		course:      controller.NewCourseController(s.course),
		curriculum:  controller.NewCurriculumController(s.section, s.lecture, s.quiz),
		news:        controller.NewNewsController(s.news, s.languages),
		catalog:     controller.NewCatalogController(s.category, s.teacher),
		user:        controller.NewUserController(s.user),
		certificate: controller.NewCertificateController(s.certificate),
		health:      controller.NewHealthController(a.Redis, s.tokens),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// NewApp wires the gateway. Only infrastructure it cannot run without
// (redis when it holds the token) makes it fail.
func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	app := &App{Config: cfg}

	store, err := app.initTokenStore(cfg)
	if err != nil {
		logger.Log.Error("Failed to initialize redis", zap.Error(err))
		return nil, err
	}

	services, err := app.initServices(cfg, store)
	if err != nil {
		logger.Log.Error("Failed to initialize certificate renderer", zap.Error(err))
		return nil, err
	}
	app.services = services
	controllers := app.initControllers(services)

	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("course-admin-gateway", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Error("Failed to initialize tracing, continuing without it", zap.Error(err))
			cfg.Tracing.Enabled = false
		} else {
			app.tracer = tp
		}
	}

	router := gin.New()
	app.Router = router
	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers)

	if cfg.Certificate.Archive && cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		services.tokens.SetCredentials(context.Background(), newCfg.Backend.AdminEmail, newCfg.Backend.AdminPassword)
	})
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		if newCfg.Backend.BaseURL != cfg.Backend.BaseURL || newCfg.Token.Store != cfg.Token.Store {
			logger.Log.Warn("Backend URL or token store changed; restart to apply",
				zap.String("baseUrl", newCfg.Backend.BaseURL),
				zap.String("tokenStore", newCfg.Token.Store))
		}
	})

	return app, nil
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	if a.Config.File != "" {
		go func() {
			if err := configwatcher.WatchConfig(watchCtx, a.Config.File, a.applyConfig); err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port), zap.String("backend", a.Config.Backend.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	// wait for a signal, then give in-flight requests 5 seconds
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
