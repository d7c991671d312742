package main

import (
	"log"
	"time"

	"lingo/config"
	"lingo/database"
	"lingo/identity"
	"lingo/learning"
	"lingo/logger"
	"lingo/repositories"
	"lingo/routers"
	"lingo/utils"
	"lingo/viewcache"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	appLog, err := logger.New(cfg.AppMode)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer appLog.Sync()

	database.ConnectDb()
	repos := repositories.New(database.Database.Db, appLog)

	var views viewcache.Cache = viewcache.Noop{}
	if cfg.RedisAddr != "" {
		views, err = viewcache.NewRedis(viewcache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      time.Duration(cfg.ViewCacheTTLSeconds) * time.Second,
		}, appLog)
		if err != nil {
			appLog.Fatal("redis unavailable", "addr", cfg.RedisAddr, "error", err)
		}
	}

	profiles := identity.NewLocalProfiles(repos.Users)
	if cfg.IdentityAPIURL != "" {
		profiles = identity.NewRemoteProfiles(cfg.IdentityAPIURL, cfg.IdentityAPIKey, appLog)
	}

	var notifier learning.EnrollmentNotifier
	if mailer := utils.NewMailer(cfg.SendgridAPIKey, cfg.EmailSender, "", appLog); mailer != nil {
		notifier = mailer
	} else {
		appLog.Warn("SENDGRID_API_KEY not set, enrollment emails are disabled")
	}

	svc := learning.New(repos, views, profiles, notifier, appLog)

	scheduler, err := utils.InitializeSubmissionScheduler(repos.Submissions, cfg.SubmissionPruneCron, cfg.SubmissionRetentionDays, appLog)
	if err != nil {
		appLog.Fatal("invalid SUBMISSION_PRUNE_CRON", "cron", cfg.SubmissionPruneCron, "error", err)
	}
	defer scheduler.Stop()

	app := routers.NewApp(routers.Deps{
		Learning:     svc,
		Users:        repos.Users,
		SaltRound:    cfg.SaltRound,
		AllowOrigins: cfg.CorsAllowOrigins,
		AccessLog:    true,
		Log:          appLog,
	})

	appLog.Info("server is running", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		appLog.Fatal("server stopped", "error", err)
	}
}
