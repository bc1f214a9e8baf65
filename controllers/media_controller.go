package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tripwise/tripmedia/middleware"
	"github.com/tripwise/tripmedia/models"
	"github.com/tripwise/tripmedia/services"
	"github.com/tripwise/tripmedia/utils"
)

const mediaCachePrefix = "cache:media:"

// MediaController shapes HTTP requests and responses around the media service.
// All lifecycle decisions live in the service; this layer only binds, extracts
// identity, and maps errors to statuses.
type MediaController struct {
	service *services.MediaService
}

// NewMediaController creates a new MediaController instance.
func NewMediaController(service *services.MediaService) *MediaController {
	return &MediaController{service: service}
}

// InitUpload starts the two-phase upload handshake and returns presigned
// upload instructions.
func (mc *MediaController) InitUpload(ctx *gin.Context) {
	var req struct {
		JournalID string `json:"journalId"`
		FileName  string `json:"fileName" binding:"required"`
		MimeType  string `json:"mimeType" binding:"required"`
		Bytes     int64  `json:"bytes" binding:"required,gt=0"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	fileName := strings.TrimSpace(req.FileName)
	if fileName == "" || strings.Contains(fileName, "/") {
		utils.Error(ctx, http.StatusBadRequest, 40011, "invalid file name")
		return
	}

	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	resp, err := mc.service.InitUpload(ctx.Request.Context(), userID, services.InitUploadRequest{
		JournalID: req.JournalID,
		FileName:  fileName,
		MimeType:  req.MimeType,
		Bytes:     req.Bytes,
	})
	if err != nil {
		mc.respondError(ctx, err)
		return
	}

	utils.Success(ctx, resp)
}

// ConfirmUpload finalizes an upload with the client-reported checksum, size and
// dimensions, and returns the full media view.
func (mc *MediaController) ConfirmUpload(ctx *gin.Context) {
	var req struct {
		MediaID  string `json:"mediaId" binding:"required"`
		Checksum string `json:"checksum" binding:"required"`
		Bytes    int64  `json:"bytes" binding:"required,gt=0"`
		Width    *int   `json:"width"`
		Height   *int   `json:"height"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40012, "invalid request payload")
		return
	}

	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	view, err := mc.service.ConfirmUpload(ctx.Request.Context(), userID, services.ConfirmUploadRequest{
		MediaID:  req.MediaID,
		Checksum: req.Checksum,
		Bytes:    req.Bytes,
		Width:    req.Width,
		Height:   req.Height,
	})
	if err != nil {
		mc.respondError(ctx, err)
		return
	}

	utils.InvalidateByPrefix(mediaCachePrefix + req.MediaID)

	utils.Success(ctx, view)
}

// GetMedia returns one media view, served from cache when possible.
func (mc *MediaController) GetMedia(ctx *gin.Context) {
	id := ctx.Param("id")

	cacheKey := mediaCachePrefix + id
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	view, err := mc.service.GetMedia(ctx.Request.Context(), id)
	if err != nil {
		mc.respondError(ctx, err)
		return
	}

	// Cache the full envelope so a hit can be served as raw bytes.
	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: view}, 10*time.Minute)
	utils.Success(ctx, view)
}

// GetMediaBatch returns views for the requested ids, silently omitting unknown ones.
func (mc *MediaController) GetMediaBatch(ctx *gin.Context) {
	var ids []string
	if err := ctx.ShouldBindJSON(&ids); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40013, "invalid request payload")
		return
	}
	if len(ids) == 0 {
		utils.Success(ctx, []models.MediaView{})
		return
	}

	views, err := mc.service.GetMediaBatch(ctx.Request.Context(), ids)
	if err != nil {
		mc.respondError(ctx, err)
		return
	}

	utils.Success(ctx, views)
}

// DeleteMedia soft-deletes a record and removes its stored object.
func (mc *MediaController) DeleteMedia(ctx *gin.Context) {
	id := ctx.Param("id")

	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	if err := mc.service.DeleteMedia(ctx.Request.Context(), id, userID); err != nil {
		mc.respondError(ctx, err)
		return
	}

	utils.InvalidateByPrefix(mediaCachePrefix + id)

	utils.NoContent(ctx)
}

func (mc *MediaController) respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		utils.Error(ctx, http.StatusBadRequest, 40014, err.Error())
	case errors.Is(err, services.ErrTerminalState):
		utils.Error(ctx, http.StatusConflict, 40910, "media is in a terminal state")
	case errors.Is(err, services.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40410, "media not found")
	case errors.Is(err, services.ErrNotOwner):
		utils.Error(ctx, http.StatusForbidden, 40310, "not the media owner")
	case errors.Is(err, services.ErrOwnershipDenied):
		utils.Error(ctx, http.StatusForbidden, 40311, "journal ownership denied")
	case errors.Is(err, services.ErrJournalUnavailable):
		utils.Error(ctx, http.StatusBadGateway, 50210, "journal service unavailable")
	default:
		utils.Error(ctx, http.StatusInternalServerError, 50010, "internal error")
	}
}
