package app

import (
	"context"
	"deep_card_backend/internal/config"
	"deep_card_backend/internal/controller"
	"deep_card_backend/internal/middleware"
	"deep_card_backend/internal/model"
	"deep_card_backend/internal/repository"
	"deep_card_backend/internal/service"
	"deep_card_backend/internal/util"
	"deep_card_backend/pkg/configwatcher"
	"deep_card_backend/pkg/logger"
	"deep_card_backend/pkg/monitoring"
	"deep_card_backend/pkg/security"
	"deep_card_backend/pkg/tracing"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

type App struct {
	Config *config.Config
	Router *gin.Engine

	configDir       string
	ctx             context.Context
	cancel          context.CancelFunc
	tracer          *sdktrace.TracerProvider
	repos           *repositories
	services        *services
	cfgMu           sync.Mutex
	configCallbacks []func(*config.Config)
}

type repositories struct {
	session *repository.SessionRepository
}

type services struct {
	ai       *service.AIService
	fallback *service.FallbackService
	game     *service.GameService
}

type controllers struct {
	game   *controller.GameController
	health *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.cfgMu.Lock()
	defer a.cfgMu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	a.cfgMu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.Config = cfg
	a.cfgMu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories() *repositories {
	return &repositories{
		session: repository.NewSessionRepository(),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.ai = service.NewAIService(cfg.AI)
	s.fallback = service.NewFallbackService(model.DefaultQuestionBank(), cfg.Game.DecorateFallback)
	s.game = service.NewGameService(repos.session, s.ai, s.fallback)

	a.RegisterConfigCallback(func(c *config.Config) {
		s.ai.UpdateConfig(c.AI)
		s.fallback.SetDecorate(c.Game.DecorateFallback)
	})

	return s
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		game:   controller.NewGameController(s.game),
		health: controller.NewHealthController(s.game),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.RequestLogger())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(repos *repositories, cfg *config.Config) {
	repos.session.StartJanitor(a.ctx, cfg.Game.JanitorInterval, cfg.Game.SessionTTL, func(evicted, remaining int) {
		monitoring.ActiveSessions.Set(float64(remaining))
		if evicted > 0 {
			logger.Log.Info("idle sessions evicted", zap.Int("evicted", evicted), zap.Int("remaining", remaining))
		}
	})

	if err := configwatcher.WatchConfig(a.ctx, a.configDir, a.applyConfig); err != nil {
		logger.Log.Warn("config hot reload disabled", zap.Error(err))
	}
}

// New 构建应用但不启动后台任务，测试直接使用 Router
func New(cfg *config.Config, configDir string) *App {
	if cfg.Server.Mode == gin.ReleaseMode || cfg.Server.Mode == gin.DebugMode || cfg.Server.Mode == gin.TestMode {
		gin.SetMode(cfg.Server.Mode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		Config:    cfg,
		configDir: configDir,
		ctx:       ctx,
		cancel:    cancel,
	}

	app.repos = app.initRepositories()
	app.services = app.initServices(app.repos, cfg)
	controllers := app.initControllers(app.services)

	router := gin.New()
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		util.LogInternalError(c, fmt.Errorf("panic: %v", recovered))
		c.Abort()
	}))
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	return app
}

func NewApp(cfg *config.Config, configDir string) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	monitoring.Init()

	app := New(cfg, configDir)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	if app.services.ai.Enabled() {
		logger.Log.Info("AI question generation enabled", zap.String("model", app.services.ai.Model()))
	} else {
		logger.Log.Info("No AI credential configured, serving questions from the bank only")
	}

	app.startBackgroundTasks(app.repos, cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	// 停止会话清理和配置监听
	a.cancel()

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

	logger.Log.Info("Server exiting")
}
