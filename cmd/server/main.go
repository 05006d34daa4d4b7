package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/chinkunlim/Project-Synapse/config"
	"github.com/chinkunlim/Project-Synapse/internal/api/handler"
	"github.com/chinkunlim/Project-Synapse/internal/api/middleware"
	"github.com/chinkunlim/Project-Synapse/internal/api/router"
	"github.com/chinkunlim/Project-Synapse/internal/repository"
	"github.com/chinkunlim/Project-Synapse/internal/schedule"
	"github.com/chinkunlim/Project-Synapse/internal/service"
	"github.com/chinkunlim/Project-Synapse/pkg/database"
	"github.com/chinkunlim/Project-Synapse/pkg/jwt"
	applogger "github.com/chinkunlim/Project-Synapse/pkg/logger"
	"github.com/chinkunlim/Project-Synapse/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("SYNAPSE_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	// 接口变量保持为 nil，避免把 nil *redis.Client 包装成非 nil 接口
	var (
		syncStore service.SyncStore
		limiter   middleware.RateLimiter
	)
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，日历同步锁与登录限流将不可用", zap.Error(err))
		rdb = nil
	} else {
		syncStore = rdb
		limiter = rdb
	}

	// 5. 初始化 JWT 管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 6. 学期表：预置 → 数据库覆盖
	calendar := schedule.NewDefaultCalendar()
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, calendar, syncStore, jwtMgr, logger)

	loadCtx, loadCancel := context.WithTimeout(context.Background(), 10*time.Second)
	n, err := svc.Semester.LoadPersisted(loadCtx)
	loadCancel()
	if err != nil {
		logger.Fatal("加载学期表失败", zap.Error(err))
	}
	logger.Info("学期表已加载", zap.Int("persisted", n), zap.Int("total", len(calendar.All())))

	// 6.1 启动时同步日历（失败不影响启动）
	if cfg.Calendar.SyncOnStart && cfg.Calendar.ICalURL != "" {
		syncCtx, syncCancel := context.WithTimeout(context.Background(), cfg.Calendar.FetchTimeout+30*time.Second)
		result, err := svc.CalendarSync.Sync(syncCtx, "")
		syncCancel()
		if err != nil {
			logger.Warn("启动时日历同步失败", zap.Error(err))
		} else {
			logger.Info("启动时日历同步完成", zap.Int("applied", len(result.Applied)), zap.Int("skipped", result.Skipped))
		}
	}

	// 7. Handler 与路由
	h := handler.NewHandler(svc, cfg.Server.MaxUploadBytes())
	engine := router.Setup(cfg, h, jwtMgr, limiter, logger)

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 关闭数据库连接
	if sqlDB != nil {
		sqlDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
