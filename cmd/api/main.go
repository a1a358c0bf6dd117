package main

import (
	"context"
	"net/http"
	"os"
	"time"

	blobmem "livestock-traceability/internal/adapters/blob/memory"
	blobs3 "livestock-traceability/internal/adapters/blob/s3"
	"livestock-traceability/internal/adapters/geocode/nominatim"
	"livestock-traceability/internal/config"
	"livestock-traceability/internal/platform/logger"
	"livestock-traceability/internal/ports/blob"
	"livestock-traceability/internal/ports/geocode"
	"livestock-traceability/internal/router"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	var photos blob.Store
	if cfg.BlobBucket != "" {
		s3Store, err := blobs3.New(context.Background(), blobs3.Config{
			Region:          cfg.BlobRegion,
			Bucket:          cfg.BlobBucket,
			Endpoint:        cfg.BlobEndpoint,
			AccessKeyID:     cfg.BlobAccessKey,
			SecretAccessKey: cfg.BlobSecretKey,
			PathStyle:       cfg.BlobPathStyle,
			PublicBaseURL:   cfg.BlobPublicBaseURL,
		})
		if err != nil {
			log.Error("blob store init failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		photos = s3Store
	} else {
		// Sin bucket configurado: fotos en memoria (solo dev).
		photos = blobmem.NewStore()
	}

	var geocoder geocode.Resolver
	if cfg.GeocoderEnabled {
		nm, err := nominatim.New(cfg.GeocoderBaseURL, cfg.GeocoderTimeout)
		if err != nil {
			log.Error("geocoder init failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		geocoder = nm
	}

	r := router.NewRouter(router.Options{
		ServiceKey:         cfg.ServiceKey,
		Photos:             photos,
		Geocoder:           geocoder,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:             log,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": cfg.Addr()})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
