package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	middlewareLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"github.com/yockii/surat_hub/internal/api"
	"github.com/yockii/surat_hub/internal/middleware"
	"github.com/yockii/surat_hub/internal/service"
	"github.com/yockii/surat_hub/pkg/config"
	"github.com/yockii/surat_hub/pkg/logger"
	"github.com/yockii/surat_hub/pkg/pdfconv"
)

type Server struct {
	app *fiber.App
	db  *gorm.DB

	// 各个service
	sequenceSrv service.SequenceService
	metadataSrv service.MetadataService
	templateSrv service.TemplateService
	letterSrv   service.LetterService
	exportSrv   service.ExportService
}

// New db 为 nil 时不存档，流水号也不能使用 database 存储
func New(db *gorm.DB) *Server {
	return &Server{db: db}
}

func (s *Server) Start() error {
	// 创建Fiber实例
	s.app = fiber.New(fiber.Config{
		AppName:               config.GetString("server.app_name"),
		EnablePrintRoutes:     config.GetBool("server.print_routes"),
		BodyLimit:             config.GetInt("server.body_limit"),
		DisableStartupMessage: true,
	})

	if err := s.setupServices(); err != nil {
		return err
	}

	// 配置中间件
	s.setupMiddleware()

	// 注册路由
	s.registerHandlers()
	s.setupRoutes()

	// 启动服务器
	addr := config.GetServerAddress()
	logger.Info("服务监听地址", logger.F("address", addr))

	// 优雅关闭
	go s.gracefulShutdown()

	if err := s.app.Listen(addr); err != nil {
		logger.Error("服务停止", logger.F("error", err))
		return err
	}
	return nil
}

func (s *Server) gracefulShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("服务关闭中...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.app.ShutdownWithContext(ctx); err != nil {
		logger.Error("服务关闭失败", logger.F("error", err))
	}

	logger.Info("服务已关闭")
}

// newSequenceService 按 letter.sequence_store 选择流水号存储
func newSequenceService(store string, db *gorm.DB) (service.SequenceService, error) {
	switch store {
	case "", service.SequenceStoreMemory:
		return service.NewMemorySequenceService(), nil
	case service.SequenceStoreDatabase:
		if db == nil {
			return nil, fmt.Errorf("%w: sequence_store=database 需要配置数据库", config.ErrUnknownSequenceStore)
		}
		return service.NewDatabaseSequenceService(db), nil
	case service.SequenceStoreRedis:
		return service.NewRedisSequenceService(service.NewRedisClient()), nil
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnknownSequenceStore, store)
	}
}

// setupServices 配置服务层
func (s *Server) setupServices() error {
	store := config.GetString("letter.sequence_store")
	sequenceSrv, err := newSequenceService(store, s.db)
	if err != nil {
		return err
	}
	s.sequenceSrv = sequenceSrv
	logger.Info("流水号存储", logger.F("store", store))

	s.metadataSrv = service.NewMetadataService(service.LetterProfileFromConfig(), s.sequenceSrv, time.Now)
	s.templateSrv = service.NewTemplateServiceFromConfig()
	s.letterSrv = service.NewLetterService(s.db)

	converter := pdfconv.NewLibreOffice(config.GetString("pdf.soffice_path"), config.GetDuration("pdf.timeout"))
	if !converter.Available() {
		logger.Warn("未找到soffice，PDF导出将失败", logger.F("path", config.GetString("pdf.soffice_path")))
	}
	s.exportSrv = service.NewExportService(s.templateSrv, s.metadataSrv, s.letterSrv, converter)
	return nil
}

// setupMiddleware 配置中间件
func (s *Server) setupMiddleware() {
	// 异常恢复
	s.app.Use(recover.New())

	// CORS，暴露信件编号等响应头给前端
	s.app.Use(cors.New(cors.Config{
		AllowOrigins:  config.GetString("security.allowed_origins"),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Request-Id",
		ExposeHeaders: "Content-Disposition, X-No-Surat, X-Unit-Pengirim, X-Request-Id, X-Page-Count",
	}))

	// 访问日志
	s.app.Use(middlewareLogger.New(middlewareLogger.Config{
		Format:     "[${ip}]-${time} ${status} ${latency} ${method} ${path} | ${error}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
	}))
}

func (s *Server) registerHandlers() {
	var limiter fiber.Handler
	if config.GetBool("rate_limit.enabled") {
		limiter = middleware.RateLimit(
			config.GetInt("rate_limit.max_requests"),
			config.GetDuration("rate_limit.duration"),
		)
	}
	api.RegisterExportHandler(s.exportSrv, limiter)
	api.RegisterSuratHandler(s.metadataSrv, s.templateSrv, s.letterSrv)
	api.RegisterHealthHandler()
}

func (s *Server) setupRoutes() {
	// API路由组
	apiGroup := s.app.Group("/api")
	for _, handler := range api.Handlers {
		handler.RegisterRoutes(apiGroup)
	}

	// 模板文件下载
	s.app.Static("/templates", config.GetString("template.dir"))
}
