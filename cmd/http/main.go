package main

import (
	"context"
	"mentorship-service/internal/app/config"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/delivery/http/controllers"
	"mentorship-service/internal/app/delivery/http/middlewares"
	"mentorship-service/internal/app/delivery/http/routers"
	"mentorship-service/internal/app/drivers/database"
	"mentorship-service/internal/app/drivers/logger"
	"mentorship-service/internal/app/drivers/mailer"
	"mentorship-service/internal/app/drivers/messaging"
	"mentorship-service/internal/app/drivers/storage"
	"mentorship-service/internal/app/services/core/balances"
	"mentorship-service/internal/app/services/core/bookings"
	"mentorship-service/internal/app/services/core/cancellations"
	"mentorship-service/internal/app/services/core/disputes"
	"mentorship-service/internal/app/services/core/payments"
	"mentorship-service/internal/app/services/core/reschedules"
	"mentorship-service/internal/app/services/core/scheduler"
	"mentorship-service/internal/app/services/core/slots"
	"mentorship-service/internal/app/services/core/webhooks"
	"mentorship-service/internal/app/services/shared/jwtmanager"
	"mentorship-service/internal/app/services/shared/locker"
	mailerService "mentorship-service/internal/app/services/shared/mailer"
	"mentorship-service/internal/app/services/shared/notification"
	"mentorship-service/internal/app/services/shared/paymentprovider"
	"mentorship-service/internal/app/services/shared/payout"
	"mentorship-service/internal/app/services/shared/ratelimiter"
	"mentorship-service/internal/app/services/shared/redis"
	"mentorship-service/internal/app/services/shared/smtp"
	evidenceStorage "mentorship-service/internal/app/services/shared/storage"
	"mentorship-service/internal/app/services/shared/unitofwork"
	"mentorship-service/internal/app/services/shared/userdirectory"
	"mentorship-service/internal/app/services/shared/videolink"
	"mentorship-service/internal/app/services/shared/webhookarchive"
	"mentorship-service/internal/app/services/shared/webhookretry"
	"mentorship-service/internal/pkg/utils"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewZapLogger(driverConfig, internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatal("Error loading location", zap.Error(err))
	}
	time.Local = location

	bootstrap := &config.Bootstrap{
		Router:         chi.NewRouter(),
		PostgresDB:     database.NewPostgresDB(driverConfig),
		MongoDB:        database.NewMongoDB(driverConfig),
		Redis:          database.NewRedisClient(driverConfig),
		RabbitMQ:       messaging.NewRabbitMQ(driverConfig),
		Minio:          storage.NewMinio(driverConfig, internalConfig.Evidence.BucketName),
		Logger:         log,
		InternalConfig: internalConfig,
		DriverConfig:   driverConfig,
	}

	if err := bootstrapingTheApp(bootstrap); err != nil {
		log.Fatal("Failed to bootstrap the app", zap.Error(err))
	}

	server := &http.Server{
		Addr:              internalConfig.App.Port,
		Handler:           bootstrap.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server started", zap.String("address", internalConfig.App.Port))
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Info("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to release resources", zap.Error(err))
	}

	log.Info("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap) error {
	cfg := bootstrap.InternalConfig
	log := bootstrap.Logger
	clock := utils.SystemClock{}

	// Infrastructure
	unitOfWork := unitofwork.NewPostgresUnitOfWork(bootstrap.PostgresDB, log)
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	lockService := locker.NewLockService(redisRepository, log)
	userDirectory := userdirectory.NewUserMongoRepository(bootstrap.MongoDB, cfg.Archive.DBName, cfg.Archive.UsersCollection)
	webhookArchive := webhookarchive.NewWebhookEventMongoRepository(bootstrap.MongoDB, cfg.Archive.DBName, cfg.Archive.WebhookEventsCollection)
	evidence := evidenceStorage.NewMinioEvidenceStorage(bootstrap.Minio, cfg.Evidence.BucketName)

	notifier, err := newNotifier(bootstrap)
	if err != nil {
		return err
	}
	notificationService := notification.NewNotificationService(userDirectory, notifier, log)

	webhookRetryQueue, err := webhookretry.NewService(
		bootstrap.RabbitMQ,
		log,
		cfg.Queue.WebhookRetryQueue,
		cfg.Queue.WebhookDeadLetterQueue,
		cfg.Queue.Prefetch,
	)
	if err != nil {
		return err
	}

	providers := paymentprovider.NewRegistryFromConfig(cfg, log)
	jobs := scheduler.NewSchedulerService(clock, log)

	// Usecases
	slotUsecase := slots.NewSlotUsecase(unitOfWork, clock, log)
	balanceUsecase := balances.NewBalanceUsecase(unitOfWork, jobs, payout.NewPayoutGateway(cfg), notificationService, clock, cfg, log)
	bookingUsecase := bookings.NewBookingUsecase(unitOfWork, slotUsecase, balanceUsecase, jobs, clock, cfg, log)
	paymentUsecase := payments.NewPaymentUsecase(
		unitOfWork,
		providers,
		slotUsecase,
		balanceUsecase,
		jobs,
		videolink.NewPlaceholderGenerator(cfg.VideoLink.BaseUrl),
		notificationService,
		redisRepository,
		webhookArchive,
		webhookRetryQueue,
		clock,
		cfg,
		log,
	)
	cancellationUsecase := cancellations.NewCancellationUsecase(unitOfWork, slotUsecase, paymentUsecase, notificationService, clock, cfg, log)
	rescheduleUsecase := reschedules.NewRescheduleUsecase(unitOfWork, slotUsecase, jobs, notificationService, clock, cfg, log)
	disputeUsecase := disputes.NewDisputeUsecase(unitOfWork, paymentUsecase, balanceUsecase, evidence, notificationService, clock, cfg, log)

	// Background workers
	dispatcher := scheduler.NewDispatcher()
	scheduler.RegisterLifecycleHandlers(dispatcher, bookingUsecase, paymentUsecase, rescheduleUsecase, balanceUsecase)
	jobWorker := scheduler.NewWorker(log, cfg, lockService, unitOfWork, dispatcher, clock)
	jobWorker.Start(context.Background())

	webhookWorker := webhooks.NewWorker(log, cfg, lockService, webhookRetryQueue, paymentUsecase)
	stopWebhookWorker := webhookWorker.Start(context.Background())

	bootstrap.WorkerStops = append(bootstrap.WorkerStops, jobWorker.Stop, stopWebhookWorker)

	// HTTP
	enforcer, err := casbin.NewEnforcer(cfg.RBAC.ModelPath, cfg.RBAC.PolicyPath)
	if err != nil {
		return err
	}
	jwtManager, err := jwtmanager.NewJWTManager(cfg, log)
	if err != nil {
		return err
	}
	middleware := middlewares.NewMiddlewares(log, cfg, enforcer, jwtManager)
	middleware.ActionLimiter = ratelimiter.NewActionLimiter(redisRepository, log)

	evidenceMaxBytes := cfg.Dispute.EvidenceMaxSizeInMB << 20
	evidenceURLExpiry := time.Duration(cfg.Dispute.EvidenceURLExpiryInMinutes) * time.Minute

	routers.SetupRoutes(bootstrap.Router, cfg, middleware, routers.WebhookLimiter(middleware), routers.Controllers{
		Slot:       controllers.NewSlotController(log, slotUsecase, clock),
		Session:    controllers.NewSessionController(log, bookingUsecase, cancellationUsecase),
		Reschedule: controllers.NewRescheduleController(log, rescheduleUsecase),
		Payment:    controllers.NewPaymentController(log, paymentUsecase),
		Webhook:    controllers.NewWebhookController(log, paymentUsecase),
		Balance:    controllers.NewBalanceController(log, balanceUsecase),
		Dispute:    controllers.NewDisputeController(log, disputeUsecase, clock, evidenceMaxBytes, evidenceURLExpiry),
	})

	return nil
}

// newNotifier picks the email transport named by mailer.driver.
func newNotifier(bootstrap *config.Bootstrap) (contracts.Notifier, error) {
	cfg := bootstrap.InternalConfig
	if cfg.Mailer.Driver == "smtp" {
		client := mailer.NewSMTPClient(bootstrap.DriverConfig, cfg.Mailer.EmailSender)
		return smtp.NewSmtpService(client), nil
	}

	if err := messaging.DeclareDurableQueue(bootstrap.RabbitMQ, cfg.Queue.MailerQueue); err != nil {
		return nil, err
	}
	return mailerService.NewMailerService(bootstrap.RabbitMQ, cfg.Queue.MailerQueue, bootstrap.Logger)
}
