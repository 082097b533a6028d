package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recommendation-service/config"
	"recommendation-service/internal/handler"
	"recommendation-service/internal/model"
	"recommendation-service/internal/repository"
	"recommendation-service/internal/service"
	dbPkg "recommendation-service/pkg/db"
	"recommendation-service/pkg/logger"
	"recommendation-service/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// 1. 加载.env文件（不存在时使用系统环境变量）
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// 2. 加载配置
	cfg := config.LoadConfig()

	// 3. 初始化日志系统
	log := logger.InitLogger(cfg.Log)
	defer log.Sync()

	log.Info("=== 商品推荐服务启动 ===")
	log.Info("服务器配置信息",
		zap.String("port", cfg.Server.Port),
		zap.String("database_host", cfg.Database.Host),
		zap.Int("database_port", cfg.Database.Port),
		zap.String("database_name", cfg.Database.Database),
		zap.String("database_user", cfg.Database.Username),
		zap.String("log_level", cfg.Log.Level),
	)

	// 4. 初始化数据库连接
	database, err := dbPkg.InitDB(cfg.Database)
	if err != nil {
		log.Fatal("数据库连接失败", zap.Error(err))
	}
	defer func() {
		if err := dbPkg.CloseDB(database); err != nil {
			log.Error("关闭数据库连接失败", zap.Error(err))
		}
	}()
	log.Info("数据库连接成功")

	// 4.1 自动迁移表结构
	if err := dbPkg.AutoMigrate(database, &model.Recommendation{}); err != nil {
		log.Fatal("自动迁移失败", zap.Error(err))
	}
	log.Info("自动迁移完成")

	// 4.2 初始化业务服务
	recommendationRepo := repository.NewRecommendationRepository(database)
	recommendationSvc := service.NewRecommendationService(recommendationRepo)
	recommendationHandler := handler.NewRecommendationHandler(recommendationSvc)

	// 5. 设置Gin模式
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 6. 创建Gin路由
	router := gin.New()

	// 使用中间件
	router.Use(logger.LoggerMiddleware())      // 自定义日志中间件
	router.Use(logger.ErrorLoggerMiddleware()) // 错误日志中间件

	// 6.1 注册路由
	registerRoutes(router, recommendationHandler, database)

	// 7. 创建HTTP服务器
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 8. 启动HTTP服务器
	go func() {
		log.Info("HTTP服务器启动", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP服务器启动失败", zap.Error(err))
		}
	}()

	// 9. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("正在关闭服务器...")

	// 设置关闭超时
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 关闭HTTP服务器
	if err := server.Shutdown(ctx); err != nil {
		log.Error("HTTP服务器关闭失败", zap.Error(err))
	}

	log.Info("服务器已安全关闭")
}

// registerRoutes 注册全部路由
func registerRoutes(router *gin.Engine, h *handler.RecommendationHandler, database *gorm.DB) {
	// 未注册的方法返回405，未知路径返回404，响应体统一为{"message"}
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c, "method not allowed")
	})
	router.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "resource not found")
	})

	// 健康检查
	// 完整url为：http://localhost:8080/healthcheck
	router.GET("/healthcheck", handler.HealthCheck(database))

	// 客户端操作页面
	// 完整url为：http://localhost:8080/
	router.StaticFile("/", "./static/index.html")
	router.Static("/static", "./static")

	// 推荐关系API
	api := router.Group("/api")
	{
		recs := api.Group("/recommendations")
		{
			recs.POST("", h.Create)                                            // 创建推荐
			recs.GET("", h.Search)                                             // 条件查询
			recs.GET("/:product_id/:related_product_id", h.Get)                // 获取单条推荐
			recs.PUT("/:product_id/:related_product_id", h.Update)             // 更新类型与状态
			recs.PUT("/:product_id/:related_product_id/toggle", h.Toggle)      // 翻转启用状态
			recs.DELETE("/:product_id/:related_product_id", h.Delete)          // 删除单条推荐
			recs.DELETE("/:product_id", h.DeleteByProduct)                     // 按商品删除（可过滤）
			recs.DELETE("/:product_id/all", h.DeleteAll)                       // 删除商品全部推荐
		}
	}
}
