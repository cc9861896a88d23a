package main

import (
	"fmt"
	"log"

	"labmark/internal/aiextract"
	"labmark/internal/config"
	"labmark/internal/extract"
	"labmark/internal/handler"
	"labmark/internal/ocr"
	"labmark/internal/pdftext"
	"labmark/internal/port"
	"labmark/internal/repository/postgres"
	"labmark/internal/router"
	"labmark/internal/service"
	s3storage "labmark/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	fileRepo := postgres.NewFileMetaRepo(db)
	draftRepo := postgres.NewDraftRepo(db)
	aliasRepo := postgres.NewAliasOverrideRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Extraction pipeline: the OCR and AI stages are optional and disabled
	// when unconfigured.
	var ocrEngine port.OCREngine
	if cfg.Extraction.OCREndpoint != "" {
		ocrEngine = ocr.NewClient(cfg.Extraction.OCREndpoint)
	}
	var aiClient port.AIExtractor
	if cfg.AI.APIKey != "" {
		aiClient = aiextract.NewClient(&cfg.AI)
	} else {
		log.Println("no AI API key configured; extraction runs local-only")
	}
	pipeline := extract.NewPipeline(pdftext.NewExtractor(), ocrEngine, aiClient)

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	fileSvc := service.NewFileService(fileRepo, s3Client, &cfg.S3)
	extractionSvc := service.NewExtractionService(pipeline, fileRepo, draftRepo, aliasRepo, s3Client, &cfg.Extraction)
	aliasSvc := service.NewAliasService(aliasRepo)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	fileH := handler.NewFileHandler(fileSvc)
	draftH := handler.NewDraftHandler(extractionSvc)
	aliasH := handler.NewAliasHandler(aliasSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(authSvc, cfg.CORS.AllowedOrigins, authH, fileH, draftH, aliasH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
