package main

import (
	"log"

	"go.uber.org/zap"

	"github.com/goodypm20014-source/hapche-social/config"
	"github.com/goodypm20014-source/hapche-social/controllers"
	"github.com/goodypm20014-source/hapche-social/routes"
	"github.com/goodypm20014-source/hapche-social/services"
	"github.com/goodypm20014-source/hapche-social/utils"
)

func main() {
	cfg := config.Load()
	logger := utils.NewLogger()
	defer logger.Sync()

	config.InitDB(cfg)
	if cfg.S3Bucket != "" {
		utils.InitS3()
	}

	store, err := services.NewStore(
		services.NewSnapshotStore(config.DB),
		services.WithLogger(logger),
	)
	if err != nil {
		log.Fatalf("Failed to load app state: %v", err)
	}
	defer store.Close()

	chat := services.NewChatClient(cfg.ChatBaseURL)
	moderator := services.NewModerationService(chat, cfg.ModerationTimeout, services.RealClock{}, logger)

	// One OCR backend serves both pipeline steps when configured;
	// otherwise Rekognition reads the label and the LLM interprets it.
	var ocr services.OCRProvider
	var analyzer services.SupplementAnalyzer
	if cfg.OCRBaseURL != "" {
		backend := services.NewOCRBackend(cfg.OCRBaseURL, cfg.ScanTimeout)
		ocr, analyzer = backend, backend
	} else {
		rek, err := services.NewRekognitionOCR()
		if err != nil {
			log.Fatalf("Failed to init Rekognition OCR: %v", err)
		}
		ocr, analyzer = rek, services.NewLLMAnalyzer(chat)
	}
	scans := services.NewScanService(store, ocr, analyzer, cfg.ScanTimeout, logger)
	stacks := services.NewStackService(store, moderator, chat, logger)

	hub := services.NewRealtimeHub()
	var push *services.PushService
	if cfg.AWSRegion != "" && (cfg.FCMArn != "" || cfg.APNSArn != "") {
		push, err = services.NewPushService(config.DB, cfg.AWSRegion, cfg.FCMArn, cfg.APNSArn, logger)
		if err != nil {
			logger.Warn("Push delivery disabled", zap.Error(err))
			push = nil
		}
	}
	notifier := services.NewNotifier(store, hub, push)

	reminders := services.NewReminderScheduler(store, notifier, logger)
	if err := reminders.Start(); err != nil {
		log.Fatalf("Failed to start reminder scheduler: %v", err)
	}
	defer reminders.Stop()

	r := routes.SetupRouter(routes.Controllers{
		Auth:          controllers.NewAuthController(store),
		Profile:       controllers.NewProfileController(store, moderator),
		Scans:         controllers.NewScanController(store, scans),
		Favorites:     controllers.NewFavoritesController(store),
		Stacks:        controllers.NewStackController(store, stacks, notifier),
		Social:        controllers.NewSocialController(store, notifier),
		Messages:      controllers.NewMessageController(store, notifier),
		Notifications: controllers.NewNotificationController(store, push),
		Devices:       controllers.NewDeviceController(store, push),
		Realtime:      controllers.NewRealtimeController(store, hub),
		Dev:           controllers.NewDevController(store, push),
	})

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
