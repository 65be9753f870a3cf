package main

import (
	"context"

	"yoyaku/internal/auth"
	equipmenthandler "yoyaku/internal/equipment/handler"
	equipmentrepo "yoyaku/internal/equipment/repository"
	equipmentservice "yoyaku/internal/equipment/service"
	equipmentvalidator "yoyaku/internal/equipment/validator"
	"yoyaku/internal/events"
	reservationhandler "yoyaku/internal/reservations/handler"
	reservationrepo "yoyaku/internal/reservations/repository"
	reservationservice "yoyaku/internal/reservations/service"
	reservationvalidator "yoyaku/internal/reservations/validator"
	"yoyaku/internal/retention"
	userhandler "yoyaku/internal/users/handler"
	userrepo "yoyaku/internal/users/repository"
	userservice "yoyaku/internal/users/service"
	uservalidator "yoyaku/internal/users/validator"
	"yoyaku/pkg/app"
	"yoyaku/pkg/config"
	"yoyaku/pkg/kafka"
)

const ServiceName = "server"

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting reservation server")
	cfg.SetMongo()

	producer := initProducer(cfg)
	defer func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Warn("Failed to close Kafka producer", "error", err)
		}
	}()

	reservationRepo := reservationrepo.NewMongoReservationRepository(cfg)
	lockRepo := reservationrepo.NewSlotLockRepository(cfg)
	reservationService := reservationservice.NewReservationService(
		reservationRepo,
		lockRepo,
		reservationvalidator.NewReservationValidator(),
		producer,
		cfg,
	)

	userService := userservice.NewUserService(
		userrepo.NewMongoUserRepository(cfg),
		reservationRepo,
		uservalidator.NewUserValidator(),
		cfg,
	)

	equipmentService := equipmentservice.NewEquipmentService(
		equipmentrepo.NewMongoEquipmentRepository(cfg),
		reservationRepo,
		equipmentvalidator.NewEquipmentValidator(),
		cfg,
	)

	authService := auth.NewAuthService(cfg)
	adminOnly := auth.AdminOnly(authService, cfg.Log)

	sweeper := retention.NewSweeper(reservationRepo, producer, cfg)
	sweepAtStartup(cfg, sweeper)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		reservationhandler.NewReservationHandler(reservationService, sweeper, adminOnly, cfg.Log),
		userhandler.NewUserHandler(userService, adminOnly, cfg.Log),
		equipmenthandler.NewEquipmentHandler(equipmentService, adminOnly, cfg.Log),
		auth.NewAuthHandler(authService, cfg.Log),
	)
	serverApp.Run()
}

// initProducer builds the event producer when brokers are configured. A nil
// producer is a valid no-op publisher.
func initProducer(cfg *config.Config) *kafka.Producer {
	kafkaCfg := kafka.Load()
	if !kafkaCfg.Enabled() {
		cfg.Log.Info("Kafka eventing disabled: no brokers configured")
		return nil
	}

	producer, err := kafka.NewProducer(kafkaCfg, events.TopicReservations)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	cfg.Log.Info("Kafka producer initialized", "topic", events.TopicReservations, "brokers", kafkaCfg.Brokers)
	return producer
}

// sweepAtStartup purges reservations past the retention window before the
// server accepts traffic. A failed sweep is logged but never blocks startup.
func sweepAtStartup(cfg *config.Config, sweeper *retention.Sweeper) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	result, err := sweeper.SweepNow(ctx, cfg.RetentionDays)
	if err != nil {
		cfg.Log.Warn("Startup retention sweep failed", "error", err)
		return
	}
	cfg.Log.Info("Startup retention sweep finished",
		"cutoff", result.Cutoff,
		"deleted", result.DeletedCount(),
		"failed", len(result.Failed),
	)
}
