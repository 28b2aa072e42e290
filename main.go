package main

import (
	"context"
	"log"

	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/config"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/controllers"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/middleware"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/policy"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/realtime"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/routes"
	"github.com/NieuweNostalgie/Nieuwe-Nostalgie/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Info("starting Nieuwe Nostalgie API server")

	// Connect to database
	db, err := config.ConnectDatabase(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := config.MigrateDatabase(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}
	logger.Info("database migration completed successfully")

	ctx := context.Background()
	store, err := newObjectStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize image storage", zap.Error(err))
	}

	hub := realtime.NewHub(logger)
	defer hub.Close()
	if cfg.NATSURL != "" {
		nc, err := realtime.ConnectNATS(cfg.NATSURL, logger)
		if err != nil {
			logger.Fatal("failed to connect to NATS", zap.Error(err))
		}
		defer nc.Close()

		relay := realtime.NewRelay(nc, realtime.DefaultSubject, hub, logger)
		if err := relay.Start(nc); err != nil {
			logger.Fatal("failed to start realtime relay", zap.Error(err))
		}
		defer func() { _ = relay.Stop() }()
		hub.SetForwarder(relay)
	}

	auth, err := middleware.EnsureValidToken(cfg, logger)
	if err != nil {
		logger.Fatal("failed to set up token validation", zap.Error(err))
	}

	router, err := newServer(ctx, server{
		cfg:   cfg,
		log:   logger,
		db:    db,
		store: store,
		hub:   hub,
		auth:  auth,
		auth0: services.NewAuth0Service(cfg),
	})
	if err != nil {
		logger.Fatal("failed to set up server", zap.Error(err))
	}

	addr := ":" + cfg.Port
	logger.Info("server is running", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

// server holds what newServer wires together
type server struct {
	cfg   *config.Config
	log   *zap.Logger
	db    *gorm.DB
	store services.ObjectStore
	hub   *realtime.Hub
	auth  gin.HandlerFunc
	auth0 services.UserInfoFetcher
}

// newObjectStore uses S3 when a bucket is configured and local disk otherwise
func newObjectStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (services.ObjectStore, error) {
	if cfg.UsesS3() {
		log.Info("storing images in S3", zap.String("bucket", cfg.AWSS3Bucket))
		s3, err := services.NewS3Service(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s3, nil
	}
	log.Info("storing images on disk", zap.String("dir", cfg.UploadDir))
	return services.NewLocalStore(cfg.UploadDir), nil
}

// newServer builds the services and controllers and returns the router
func newServer(ctx context.Context, s server) (*gin.Engine, error) {
	counters := services.NewCounterService(s.db, s.cfg.OrderNumberSeed)
	if err := counters.Ensure(ctx, services.OrderCounter); err != nil {
		return nil, err
	}

	pol := policy.New(s.cfg.StaffUnassignedVisibility)
	images := services.NewImageService(s.store)

	orders := services.NewOrderService(s.db, counters, images, s.hub, s.log)
	orders.SetLocation(s.cfg.Location)
	users := services.NewUserService(s.db, pol, s.cfg.AdminEmail, s.hub, s.log)

	h := routes.Handlers{
		Orders:    &controllers.OrderController{Orders: orders, Log: s.log},
		Dashboard: &controllers.DashboardController{Orders: orders, Policy: pol, Log: s.log},
		Invoices: &controllers.InvoiceController{
			Invoices: services.NewInvoiceService(orders, s.cfg.Company),
			Log:      s.log,
		},
		Customers: &controllers.CustomerController{Customers: services.NewCustomerService(orders), Log: s.log},
		Transport: &controllers.TransportController{Transport: services.NewTransportService(s.db, orders), Log: s.log},
		Notes:     &controllers.NoteController{Notes: services.NewNoteService(s.db, s.hub), Log: s.log},
		Organizations: &controllers.OrganizationController{
			Organizations: services.NewOrganizationService(s.db, images, s.hub, s.log),
			Supervisors:   services.NewSupervisorService(s.db, s.hub, s.log),
			Log:           s.log,
		},
		Users: &controllers.UserController{Users: users, Auth0: s.auth0, Policy: pol, Log: s.log},
		Realtime: &controllers.RealtimeController{
			Hub:            s.hub,
			AllowedOrigins: s.cfg.CORSAllowedOrigins,
			Log:            s.log,
		},
	}
	if local, ok := s.store.(*services.LocalStore); ok {
		h.Uploads = &controllers.UploadController{Store: local, Log: s.log}
	}

	return routes.SetupRouter(routes.Options{
		Config:   s.cfg,
		Log:      s.log,
		Auth:     s.auth,
		Profiles: users,
		Policy:   pol,
	}, h), nil
}
