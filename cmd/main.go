package main

import (
	"net/http"
	"os"
	"time"

	"sitepass/api/handler"
	apiMiddleware "sitepass/api/middleware"
	"sitepass/api/routes"
	"sitepass/config"
	"sitepass/internal/entity"
	"sitepass/internal/ratelimit"
	"sitepass/internal/repository"
	"sitepass/internal/service"
	"sitepass/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

func main() {
	cfg := config.Load()
	validate := validator.New()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	if cfg.JWTAccessSecret == "" || cfg.JWTRefreshSecret == "" {
		logger.Fatal("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET are required")
	}

	db := config.ConnectDB(cfg.DatabaseURL)
	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Employee{},
		&entity.Visitor{},
		&entity.AccessLog{},
		&entity.Vehicle{},
		&entity.VehicleMovement{},
		&entity.MFASecret{},
	); err != nil {
		logger.WithError(err).Fatal("migration failed")
	}

	jwtManager := utils.JWTManager{
		AccessSecret:  []byte(cfg.JWTAccessSecret),
		RefreshSecret: []byte(cfg.JWTRefreshSecret),
		Issuer:        cfg.JWTIssuer,
		Audience:      cfg.JWTAudience,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
	}
	tokenIssuer := service.JWTTokenIssuer{Manager: &jwtManager}
	mfaTokenIssuer := service.MFATokenIssuerJWT{
		Secret: []byte(cfg.JWTAccessSecret),
		Issuer: cfg.JWTIssuer,
		TTL:    5 * time.Minute,
	}

	userRepo := repository.NewUserRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	visitorRepo := repository.NewVisitorRepository(db)
	accessLogRepo := repository.NewAccessLogRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	movementRepo := repository.NewVehicleMovementRepository(db)
	mfaRepo := repository.NewMFASecretRepository(db)

	clock := service.RealClock{}
	notifier := service.NewResendNotifier(cfg.ResendAPIKey, cfg.EmailFrom, cfg.AppBaseURL)

	authService := service.NewAuthService(
		userRepo,
		accessLogRepo,
		mfaRepo,
		service.BcryptPasswordHasher{Cost: cfg.BcryptCost},
		tokenIssuer,
		mfaTokenIssuer,
		service.NewTOTPProvider(cfg.MFAIssuer),
		clock,
		logger,
		service.AuthConfig{
			MaxLoginAttempts: 5,
			LockDuration:     30 * time.Minute,
			MFAIssuer:        cfg.MFAIssuer,
		},
	)
	visitorService := service.NewVisitorService(
		visitorRepo,
		employeeRepo,
		accessLogRepo,
		notifier,
		clock,
		logger,
		service.VisitorConfig{AutoApprove: cfg.AutoApprove},
	)
	approvalService := service.NewApprovalService(employeeRepo, visitorRepo, visitorService)
	vehicleService := service.NewVehicleService(vehicleRepo, movementRepo, clock)
	employeeService := service.NewEmployeeService(employeeRepo)

	var loginLimiter, publicLimiter ratelimit.Store
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		loginLimiter = ratelimit.NewRedisStore(client, "rl:login", int64(cfg.LoginRateLimit), time.Minute)
		publicLimiter = ratelimit.NewRedisStore(client, "rl:public", int64(cfg.PublicRateLimit), time.Minute)
		logger.Info("rate limiting backed by redis")
	} else {
		loginLimiter = ratelimit.NewMemoryStore(rate.Limit(float64(cfg.LoginRateLimit)/60.0), cfg.LoginRateLimit, 10*time.Minute)
		publicLimiter = ratelimit.NewMemoryStore(rate.Limit(float64(cfg.PublicRateLimit)/60.0), cfg.PublicRateLimit, 10*time.Minute)
	}

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.Use(echoMiddleware.Recover())
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status": v.Status,
				"method": v.Method,
				"uri":    v.URI,
				"ip":     v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	router := routes.Router{
		Echo:           app,
		Auth:           handler.NewAuthHandler(authService, validate),
		Visitors:       handler.NewVisitorHandler(visitorService, validate),
		Vehicles:       handler.NewVehicleHandler(vehicleService, validate),
		Employees:      handler.NewEmployeeHandler(employeeService, validate),
		Approvals:      handler.NewApprovalHandler(approvalService, clock),
		AuthMiddleware: apiMiddleware.AuthMiddleware{JWT: &jwtManager, Users: userRepo},
		LoginLimiter:   loginLimiter,
		PublicLimiter:  publicLimiter,
	}
	router.RegisterRoutes()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.WithField("addr", cfg.HTTPAddr).Info("server started")
	if err := app.StartServer(server); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
