package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/Guyuepp/Go-Comment-Moderation/internal/repository"
	mysqlRepo "github.com/Guyuepp/Go-Comment-Moderation/internal/repository/mysql"
	myRedisCache "github.com/Guyuepp/Go-Comment-Moderation/internal/repository/redis"
	"github.com/Guyuepp/Go-Comment-Moderation/internal/rest"
	"github.com/Guyuepp/Go-Comment-Moderation/internal/rest/middleware"
	"github.com/Guyuepp/Go-Comment-Moderation/internal/usecase/capability"
	"github.com/Guyuepp/Go-Comment-Moderation/internal/usecase/comment"
	"github.com/Guyuepp/Go-Comment-Moderation/internal/workers"
)

const (
	defaultTimeout           = 30
	defaultAddress           = ":9090"
	defaultCacheDB           = 0
	defaultBloomBitSize      = 10000000
	defaultReconcileInterval = 10 * time.Minute
	dbMaxRetry               = 10
	dbRetryIntervalSec       = 2
)

func init() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("no .env file found, using process environment")
	}

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

func main() {
	//prepare database
	dbHost := os.Getenv("DATABASE_HOST")
	dbPort := os.Getenv("DATABASE_PORT")
	dbUser := os.Getenv("DATABASE_USER")
	dbPass := os.Getenv("DATABASE_PASS")
	dbName := os.Getenv("DATABASE_NAME")
	connection := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", dbUser, dbPass, dbHost, dbPort, dbName)
	val := url.Values{}
	val.Add("parseTime", "1")
	val.Add("loc", "UTC")
	dsn := fmt.Sprintf("%s?%s", connection, val.Encode())

	var (
		db  *gorm.DB
		err error
	)

	for i := range dbMaxRetry {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
		if err != nil {
			logrus.Warnf("failed to open connection to database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
		} else {
			sqlDB, err := db.DB()
			if err != nil {
				logrus.Warnf("failed to get sql.DB from gorm.DB (attempt %d/%d): %v", i+1, dbMaxRetry, err)
				continue
			}
			err = sqlDB.Ping()
			if err == nil {
				break
			}
			logrus.Warnf("failed to ping database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
			_ = sqlDB.Close()
		}

		time.Sleep(dbRetryIntervalSec * time.Second)
	}

	if err != nil {
		logrus.Fatal("could not connect to database after retries: ", err)
	}

	defer func() {
		sqlDB, err := db.DB()
		if err != nil {
			logrus.Fatal("got error when getting sql.DB from gorm.DB ", err)
		}
		if err := sqlDB.Close(); err != nil {
			logrus.Fatal("got error when closing the DB connection ", err)
		}
	}()

	// prepare cache
	cacheHost := os.Getenv("CACHE_HOST")
	cachePort := os.Getenv("CACHE_PORT")
	cachePass := os.Getenv("CACHE_PASS")
	cacheDB, err := strconv.Atoi(os.Getenv("CACHE_DB"))
	if err != nil {
		logrus.Info("failed to parse cacheDB, using default cacheDB")
		cacheDB = defaultCacheDB
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cacheHost + ":" + cachePort,
		Password: cachePass,
		DB:       cacheDB,
	})
	defer func() {
		if err := client.Close(); err != nil {
			logrus.Error("got error when closing the cache connection ", err)
		}
	}()

	if _, err = client.Ping(context.Background()).Result(); err != nil {
		logrus.Fatal("failed to open connection to cache ", err)
	}

	// prepare gin
	route := gin.Default()
	route.Use(middleware.CORS())
	timeout, err := strconv.Atoi(os.Getenv("CONTEXT_TIMEOUT"))
	if err != nil {
		logrus.Info("failed to parse timeout, using default timeout")
		timeout = defaultTimeout
	}
	route.Use(middleware.SetRequestContextWithTimeout(time.Duration(timeout) * time.Second))

	// Prepare Repository
	userRepo := mysqlRepo.NewUserRepository(db)
	commentRepo := mysqlRepo.NewCommentRepository(db)
	articleRepo := mysqlRepo.NewArticleRepository(db)
	permissionRepo := mysqlRepo.NewPermissionRepository(db)
	transactor := mysqlRepo.NewTransactor(db)

	bloomBitSize, err := strconv.ParseUint(os.Getenv("BLOOM_FILTER_SIZE"), 10, 64)
	if err != nil {
		logrus.Info("failed to parse bloom bit size, using default size")
		bloomBitSize = defaultBloomBitSize
	}
	bloomRepo := myRedisCache.NewRedisBloomRepo(client, myRedisCache.KeyArticleBloom, bloomBitSize)
	voteRepo := myRedisCache.NewVoteRepo(client)
	articleDir := repository.NewArticleDirectory(articleRepo, bloomRepo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Prepare bloom filter
	if n, err := articleDir.Warm(ctx); err != nil {
		logrus.Errorf("failed to warm article directory: %v", err)
	} else {
		logrus.Infof("article directory warmed with %d ids", n)
	}

	// Start worker
	interval := defaultReconcileInterval
	if s := os.Getenv("RECONCILE_INTERVAL"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			interval = d
		} else {
			logrus.Info("failed to parse reconcile interval, using default interval")
		}
	}
	fix, _ := strconv.ParseBool(os.Getenv("RECONCILE_FIX"))
	reconciler := workers.NewReconcileCountersWorker(commentRepo, articleRepo, articleDir, interval, fix)
	go reconciler.Start(ctx)

	// Build service Layer
	jwtSecret := os.Getenv("JWT_SECRET")
	allowGuests, _ := strconv.ParseBool(os.Getenv("ALLOW_GUEST_COMMENTS"))
	resolver := capability.NewResolver(
		capability.ParseKeys(os.Getenv("MODERATOR_PERMISSION_KEYS")),
		capability.NewBundleProvider(),
		capability.NewRoleGraphProvider(permissionRepo),
	)
	commentSvc := comment.NewService(commentRepo, articleRepo, articleDir, voteRepo, transactor, resolver, allowGuests)
	commentHandler := rest.NewCommentHandler(commentSvc)

	// Register routes
	api := route.Group("/")
	api.Use(middleware.OptionalAuth(jwtSecret), middleware.LoadActor(userRepo))
	commentHandler.Register(api)

	// Start Server
	address := os.Getenv("SERVER_ADDRESS")
	if address == "" {
		address = defaultAddress
	}
	srv := &http.Server{
		Addr:    address,
		Handler: route,
	}
	go func() {
		logrus.Infof("Server is running on %s", address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("listen: %s", err) // nolint
		}
	}()

	// shutdown
	<-ctx.Done()
	logrus.Info("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Fatal("Server forced to shutdown: ", err)
	}

	logrus.Info("Server exiting")
}
