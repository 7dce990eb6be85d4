package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"taskhive/internal/config"
	"taskhive/internal/db"
	apihttp "taskhive/internal/http"
	"taskhive/internal/repository"
	"taskhive/internal/service"
	"taskhive/internal/storage"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Ping(ctx, pool); err != nil {
		logger.Fatal("db ping failed", zap.Error(err))
	}

	if err := db.Migrate(ctx, pool); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
	if err := redisClient.Ping(ctxPing).Err(); err != nil {
		logger.Fatal("redis ping failed", zap.Error(err))
	}
	cancel()

	sessions := service.NewRedisSessionStore(redisClient, cfg.SessionTTL())

	var files storage.FileStore
	if cfg.S3Endpoint != "" {
		s3Store, err := storage.NewS3Store(ctx, storage.S3Options{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
		})
		if err != nil {
			logger.Fatal("s3 init failed", zap.Error(err))
		}
		files = s3Store
	}

	userRepo := repository.NewPgUserRepository(pool)
	teamRepo := repository.NewPgTeamRepository(pool)
	roleRepo := repository.NewPgRoleRepository(pool)
	taskRepo := repository.NewPgTaskRepository(pool)

	authzSvc := service.NewAuthzService(logger, roleRepo)
	userSvc := service.NewUserService(logger, userRepo, sessions, files, cfg.FileBaseURL)
	teamSvc := service.NewTeamService(logger, teamRepo, authzSvc)
	taskSvc := service.NewTaskService(logger, taskRepo, authzSvc)

	authHandler := apihttp.NewAuthHandler(logger, userSvc)
	teamHandler := apihttp.NewTeamHandler(logger, teamSvc, authzSvc)
	taskHandler := apihttp.NewTaskHandler(logger, taskSvc)
	profileHandler := apihttp.NewProfileHandler(logger, userSvc)

	router := apihttp.NewRouter(logger, sessions, apihttp.RouterOptions{
		SkipPrefixes:   cfg.AuthSkipPrefixes,
		RequestTimeout: cfg.RequestTimeout(),
	}, authHandler, teamHandler, taskHandler, profileHandler)

	if files != nil {
		fileServer := &http.Server{
			Addr:              ":" + cfg.FilePort,
			Handler:           apihttp.NewFileServer(logger, files, userRepo, sessions, nil, cfg.RequestTimeout()),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("starting file server", zap.String("port", cfg.FilePort))
			if err := fileServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("file server error", zap.Error(err))
			}
		}()
	}

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
