package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/10srav/tasksaver/config"
	"github.com/10srav/tasksaver/mailout"
	"github.com/10srav/tasksaver/objectstorage"
	"github.com/10srav/tasksaver/server"
	"github.com/10srav/tasksaver/store"
)

var version = "dev"

func main() {
	var confPath string
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "Show version")
	flag.StringVar(&confPath, "config", "config.yaml", "Path to config file")
	flag.Parse()

	if showVersion {
		log.Printf("Version: %s", version)
		return
	}

	// Secrets may live in a .env next to the binary; absence is fine.
	_ = godotenv.Load()

	conf, err := config.Load(confPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if conf.LogFile != "" {
		logFd, err := os.OpenFile(conf.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatalf("Error opening log file: %v", err)
		}
		defer logFd.Close()
		log.SetOutput(logFd)
	}

	db, err := store.NewDB(conf.Database)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	var s3Client *s3.S3
	if conf.ObjectStorage.Bucket != "" {
		s3Client = objectstorage.NewClient(conf.ObjectStorage)
	}

	relay := mailout.NewRelay(conf.SMTP.Addr, conf.SMTP.Username, conf.SMTP.Password)

	srv := server.New(conf, db, s3Client, relay)

	// Event statuses advance with the clock, not only on writes.
	events := store.NewEventStore(db)
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@every 10m", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if n, err := events.RefreshStatuses(ctx, time.Now()); err != nil {
			log.Printf("refresh event statuses: %v", err)
		} else if n > 0 {
			log.Printf("refreshed %d event statuses", n)
		}
	}); err != nil {
		log.Fatalf("schedule status refresh: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	e := srv.Echo()
	e.Logger.Fatal(e.Start(conf.Listen))
}
