package main

import (
	"time"

	"github.com/tripwise/tripmedia/config"
	"github.com/tripwise/tripmedia/models"
	"github.com/tripwise/tripmedia/routes"
	"github.com/tripwise/tripmedia/services"
	"github.com/tripwise/tripmedia/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.Media{})

	storage, err := services.NewMinioStorage(cfg, utils.Logger)
	if err != nil {
		utils.Sugar.Fatalf("storage init failed: %v", err)
	}

	journals := services.NewJournalClient(cfg.JournalBaseURL, time.Duration(cfg.JournalTimeoutSec)*time.Second, utils.Logger)
	store := services.NewGormMediaStore(db, utils.Logger)
	mediaService := services.NewMediaService(store, storage, journals, utils.Logger)

	r := routes.SetupRouter(mediaService)

	// Sweep stale UPLOADING records to FAILED in the background (best-effort)
	services.StartUploadSweeper(db, 5*time.Minute, utils.Logger)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
