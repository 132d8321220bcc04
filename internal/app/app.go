package app

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/edu-archive-api/api/swagger"
	"github.com/noah-isme/edu-archive-api/internal/handler"
	"github.com/noah-isme/edu-archive-api/internal/middleware"
	"github.com/noah-isme/edu-archive-api/internal/repository"
	"github.com/noah-isme/edu-archive-api/internal/service"
	"github.com/noah-isme/edu-archive-api/pkg/config"
	"github.com/noah-isme/edu-archive-api/pkg/jobs"
	"github.com/noah-isme/edu-archive-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/edu-archive-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/edu-archive-api/pkg/middleware/requestid"
	"github.com/noah-isme/edu-archive-api/pkg/storage"
)

type fileStore interface {
	Store(r io.Reader, originalName string, policy storage.ExtensionPolicy) (storage.StoredFile, error)
	Delete(key string) error
}

// Dependencies are the external resources the application runs on.
type Dependencies struct {
	Config *config.Config
	DB     *sqlx.DB
	Redis  *redis.Client
	Store  *storage.LocalStorage
	Logger *zap.Logger
}

// App holds the wired services and the HTTP router.
type App struct {
	Auth    *service.AuthService
	Metrics *service.MetricsService

	cleanup *service.FileCleanup
	router  *gin.Engine
	logger  *zap.Logger
}

type handlers struct {
	auth      *handler.AuthHandler
	browse    *handler.BrowseHandler
	courses   *handler.CourseHandler
	subjects  *handler.SubjectHandler
	notes     *handler.NoteHandler
	papers    *handler.QuestionPaperHandler
	downloads *handler.DownloadHandler
	dashboard *handler.DashboardHandler
	exports   *handler.ExportHandler
	metrics   *handler.MetricsHandler
}

// New wires repositories, services and handlers.
func New(deps Dependencies) *App {
	cfg := deps.Config
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	admins := repository.NewAdminRepository(deps.DB)
	courseRepo := repository.NewCourseRepository(deps.DB)
	subjectRepo := repository.NewSubjectRepository(deps.DB)
	noteRepo := repository.NewNoteRepository(deps.DB)
	paperRepo := repository.NewQuestionPaperRepository(deps.DB)
	sessions := repository.NewSessionRepository(deps.Redis)
	cacheRepo := repository.NewCacheRepository(deps.Redis)

	metrics := service.NewMetricsService()
	validate := service.NewValidator()
	cache := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, log.Named("cache"), cfg.Cache.Enabled)
	var files fileStore = deps.Store
	var cleanup *service.FileCleanup
	if cfg.Uploads.CleanupRetries > 0 {
		cleanup = service.NewFileCleanup(deps.Store, metrics, jobs.QueueConfig{
			Workers:    1,
			MaxRetries: cfg.Uploads.CleanupRetries,
			Logger:     log.Named("file-cleanup"),
		})
		files = cleanup
	}

	auth := service.NewAuthService(admins, sessions, validate, log.Named("auth"), metrics, service.AuthConfig{
		Secret:     cfg.Session.Secret,
		SessionTTL: cfg.Session.TTL,
	})
	courses := service.NewCourseService(courseRepo, subjectRepo, auth, files, cache, metrics, validate, log.Named("courses"))
	subjects := service.NewSubjectService(subjectRepo, courseRepo, auth, files, cache, metrics, validate, log.Named("subjects"))
	notes := service.NewNoteService(noteRepo, subjectRepo, auth, files, cache, metrics, validate, log.Named("notes"))
	papers := service.NewQuestionPaperService(paperRepo, subjectRepo, auth, files, cache, metrics, validate, log.Named("question-papers"))
	browse := service.NewBrowseService(courseRepo, noteRepo, paperRepo, cache, log.Named("browse"))
	downloads := service.NewDownloadService(noteRepo, paperRepo, deps.Store, log.Named("downloads"))
	dashboard := service.NewDashboardService(service.DashboardCounters{
		Courses:        courseRepo,
		Subjects:       subjectRepo,
		Notes:          noteRepo,
		QuestionPapers: paperRepo,
	}, noteRepo, paperRepo, auth)
	exports := service.NewExportService(papers, auth, nil, nil, log.Named("exports"))

	h := handlers{
		auth: handler.NewAuthHandler(auth, handler.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
		}),
		browse:    handler.NewBrowseHandler(browse),
		courses:   handler.NewCourseHandler(courses),
		subjects:  handler.NewSubjectHandler(subjects),
		notes:     handler.NewNoteHandler(notes),
		papers:    handler.NewQuestionPaperHandler(papers),
		downloads: handler.NewDownloadHandler(downloads),
		dashboard: handler.NewDashboardHandler(dashboard),
		exports:   handler.NewExportHandler(exports),
		metrics: handler.NewMetricsHandler(metrics, map[string]handler.ReadinessCheck{
			"database": deps.DB.PingContext,
			"redis": func(ctx context.Context) error {
				return deps.Redis.Ping(ctx).Err()
			},
		}),
	}

	a := &App{Auth: auth, Metrics: metrics, cleanup: cleanup, logger: log}
	a.router = newRouter(cfg, log, metrics, auth, h)
	return a
}

// Start launches the file cleanup retry workers when enabled.
func (a *App) Start(ctx context.Context) {
	if a.cleanup != nil {
		a.cleanup.Start(ctx)
	}
}

// Close stops background workers.
func (a *App) Close() {
	if a.cleanup != nil {
		a.cleanup.Stop()
	}
}

// Router returns the HTTP handler.
func (a *App) Router() http.Handler {
	return a.router
}

func newRouter(cfg *config.Config, log *zap.Logger, metrics *service.MetricsService, auth *service.AuthService, h handlers) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.MaxMultipartMemory = 8 << 20

	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	r.GET("/metrics", h.metrics.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/overview", h.browse.Overview)
	api.GET("/courses", h.courses.List)
	api.GET("/courses/:id", h.courses.Get)
	api.GET("/courses/:id/subjects", h.subjects.ListByCourse)
	api.GET("/subjects/:id/notes", h.notes.ListBySubject)
	api.GET("/question-papers", h.papers.List)
	api.GET("/question-papers/facets", h.browse.PaperFacets)
	api.GET("/download/:key", middleware.CacheControl(middleware.DownloadContent), h.downloads.Download)
	api.POST("/auth/login", h.auth.Login)

	secured := api.Group("")
	secured.Use(middleware.RequireAdmin(auth, cfg.Session.CookieName))
	secured.Use(middleware.Audit(log.Named("audit")))

	secured.POST("/auth/logout", h.auth.Logout)
	secured.POST("/auth/password", h.auth.ChangePassword)
	secured.GET("/auth/me", h.auth.Me)

	admin := secured.Group("/admin")
	admin.GET("/dashboard", h.dashboard.Summary)

	admin.GET("/courses", h.courses.AdminList)
	admin.POST("/courses", h.courses.Create)
	admin.PUT("/courses/:id", h.courses.Update)
	admin.DELETE("/courses/:id", h.courses.Delete)

	admin.GET("/subjects", h.subjects.List)
	admin.GET("/subjects/:id", h.subjects.Get)
	admin.POST("/subjects", h.subjects.Create)
	admin.PUT("/subjects/:id", h.subjects.Update)
	admin.DELETE("/subjects/:id", h.subjects.Delete)

	admin.GET("/notes", h.notes.List)
	admin.GET("/notes/:id", h.notes.Get)
	admin.POST("/notes", h.notes.Create)
	admin.PUT("/notes/:id", h.notes.Update)
	admin.DELETE("/notes/:id", h.notes.Delete)

	admin.GET("/question-papers", h.papers.AdminList)
	admin.GET("/question-papers/:id", h.papers.Get)
	admin.POST("/question-papers", h.papers.Create)
	admin.PUT("/question-papers/:id", h.papers.Update)
	admin.DELETE("/question-papers/:id", h.papers.Delete)

	admin.GET("/exports/question-papers", h.exports.QuestionPapers)

	return r
}
