package main

import (
	"io"
	"log"
	"os"

	"github.com/wanderspot/backend/internal/config"
	"github.com/wanderspot/backend/internal/logging"
	"github.com/wanderspot/backend/internal/media"
	miniorepo "github.com/wanderspot/backend/internal/repository/minio"
	"github.com/wanderspot/backend/internal/repository/postgres"
	"github.com/wanderspot/backend/internal/service"
	httpapi "github.com/wanderspot/backend/internal/transport/http"
)

func main() {
	cfg := config.Load()

	if cfg.LogstashTCPAddr != "" {
		writer, err := logging.NewLogstashWriter(cfg.LogstashTCPAddr)
		if err != nil {
			log.Printf("Warning: logstash disabled: %v", err)
		} else {
			defer writer.Close()
			log.SetOutput(io.MultiWriter(os.Stderr, writer))
		}
	}

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer db.Close()

	storageClient, err := miniorepo.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
	if err != nil {
		log.Fatalf("connect object storage: %v", err)
	}
	storage := miniorepo.NewStorage(storageClient)

	destRepo := postgres.NewDestinationRepo(db)
	aggregator := postgres.NewRatingAggregator(db)
	reviewRepo := postgres.NewReviewRepo(db, aggregator)

	resolver := media.NewURLResolver(cfg.MediaBaseURL)

	destService := service.NewDestinationService(destRepo, reviewRepo, storage, service.DestinationServiceConfig{
		Bucket:        cfg.MinIOBucketMedia,
		ImageMaxBytes: cfg.ImageMaxBytes,
	})
	reviewService := service.NewReviewService(reviewRepo, destRepo)

	e := httpapi.NewRouter(cfg.AllowOrigins)
	httpapi.RegisterDestinations(e, destService, resolver)
	httpapi.RegisterReviews(e, reviewService)
	httpapi.RegisterSwagger(e)

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
