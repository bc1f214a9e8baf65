package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tripwise/tripmedia/models"
)

// InitUploadRequest describes a new upload the client wants to start.
type InitUploadRequest struct {
	JournalID string
	FileName  string
	MimeType  string
	Bytes     int64
}

// InitUploadResponse returns upload instructions to the client. Checksum and
// dimensions are deliberately absent; the client reports them at confirmation
// after performing the actual PUT.
type InitUploadResponse struct {
	MediaID    string            `json:"mediaId"`
	StorageKey string            `json:"storageKey"`
	UploadURL  string            `json:"uploadUrl"`
	Headers    map[string]string `json:"headers"`
}

// ConfirmUploadRequest reports the outcome of a completed direct upload.
type ConfirmUploadRequest struct {
	MediaID  string
	Checksum string
	Bytes    int64
	Width    *int
	Height   *int
}

// MediaService orchestrates the upload lifecycle: presigned URL issuance,
// ownership authorization, and the record state machine
// (UPLOADING -> READY/FAILED/DELETED). It is stateless between calls; all
// durable state lives in the MediaStore and the storage backend.
type MediaService struct {
	store    MediaStore
	storage  StorageClient
	journals JournalClient
	logger   *zap.Logger
}

func NewMediaService(store MediaStore, storage StorageClient, journals JournalClient, log *zap.Logger) *MediaService {
	return &MediaService{store: store, storage: storage, journals: journals, logger: log}
}

// InitUpload authorizes the user against the journal, mints a media id, derives
// the canonical storage key, presigns the upload, and persists the record as
// UPLOADING. Any collaborator failure aborts before the record is written, so a
// failed init leaves no partial state; retrying is safe because every attempt
// mints a fresh id.
func (s *MediaService) InitUpload(ctx context.Context, userID string, req InitUploadRequest) (*InitUploadResponse, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidRequest)
	}
	if req.FileName == "" || req.MimeType == "" {
		return nil, fmt.Errorf("%w: fileName and mimeType are required", ErrInvalidRequest)
	}
	if req.Bytes <= 0 {
		return nil, fmt.Errorf("%w: bytes must be positive", ErrInvalidRequest)
	}

	if err := s.journals.AssertOwnership(ctx, req.JournalID, userID); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	// Namespacing by user prevents cross-user collisions and makes key
	// ownership self-evident when auditing the bucket.
	key := userID + "/" + id + "/" + req.FileName

	pre, err := s.storage.PresignPut(ctx, key, req.MimeType, req.Bytes)
	if err != nil {
		return nil, err
	}

	media := &models.Media{
		ID:         id,
		UserID:     userID,
		JournalID:  req.JournalID,
		FileName:   req.FileName,
		MimeType:   req.MimeType,
		Bytes:      req.Bytes,
		StorageKey: key,
		// May resolve before the object exists; callers must not dereference
		// it until the record is READY.
		CdnURL: s.storage.PublicURL(key),
		Status: models.StatusUploading,
	}

	if err := s.store.Save(ctx, media); err != nil {
		return nil, err
	}

	s.logger.Info("upload initialized",
		zap.String("media_id", id),
		zap.String("user_id", userID),
		zap.String("storage_key", key),
		zap.Int64("bytes", req.Bytes),
	)

	return &InitUploadResponse{
		MediaID:    id,
		StorageKey: pre.StorageKey,
		UploadURL:  pre.URL,
		Headers:    pre.Headers,
	}, nil
}

// ConfirmUpload records the client-reported checksum, actual size and
// dimensions, and transitions the record to READY. The object itself is not
// verified against storage; the client's report is trusted and a stale lie is
// bounded by the upload sweeper. Repeated confirms re-overwrite the same
// fields, which is harmless.
func (s *MediaService) ConfirmUpload(ctx context.Context, userID string, req ConfirmUploadRequest) (*models.MediaView, error) {
	if req.MediaID == "" || req.Checksum == "" {
		return nil, fmt.Errorf("%w: mediaId and checksum are required", ErrInvalidRequest)
	}
	if req.Bytes <= 0 {
		return nil, fmt.Errorf("%w: bytes must be positive", ErrInvalidRequest)
	}

	m, err := s.store.FindByID(ctx, req.MediaID)
	if err != nil {
		return nil, err
	}
	if m.UserID != userID {
		return nil, ErrNotOwner
	}
	// DELETED and FAILED are terminal; a late confirm must not revive them.
	if m.Status == models.StatusDeleted || m.Status == models.StatusFailed {
		return nil, fmt.Errorf("%w: cannot confirm %s media %s", ErrTerminalState, m.Status, m.ID)
	}

	m.Checksum = req.Checksum
	m.Bytes = req.Bytes
	m.Width = req.Width
	m.Height = req.Height
	m.Status = models.StatusReady

	if err := s.store.Save(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info("upload confirmed",
		zap.String("media_id", m.ID),
		zap.String("user_id", userID),
		zap.Int64("bytes", m.Bytes),
	)

	view := models.NewMediaView(m)
	return &view, nil
}

// GetMedia is a pure read of one record.
func (s *MediaService) GetMedia(ctx context.Context, id string) (*models.MediaView, error) {
	m, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := models.NewMediaView(m)
	return &view, nil
}

// GetMediaBatch returns views for the ids that exist, omitting the rest.
func (s *MediaService) GetMediaBatch(ctx context.Context, ids []string) ([]models.MediaView, error) {
	found, err := s.store.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]models.MediaView, 0, len(found))
	for i := range found {
		views = append(views, models.NewMediaView(&found[i]))
	}
	return views, nil
}

// DeleteMedia removes the stored object and soft-deletes the record. The
// record is kept with status DELETED so historical metadata survives. A record
// without a storage key still transitions to DELETED; there is simply nothing
// to remove from the backend.
func (s *MediaService) DeleteMedia(ctx context.Context, id, userID string) error {
	m, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if m.UserID != userID {
		return ErrNotOwner
	}
	// Re-delivered deletes succeed without touching storage again.
	if m.Status == models.StatusDeleted {
		return nil
	}
	// FAILED is terminal; only UPLOADING and READY records can be deleted.
	if m.Status == models.StatusFailed {
		return fmt.Errorf("%w: cannot delete %s media %s", ErrTerminalState, m.Status, m.ID)
	}

	if m.StorageKey != "" {
		if err := s.storage.DeleteObject(ctx, m.StorageKey); err != nil {
			return err
		}
	}

	m.Status = models.StatusDeleted
	if err := s.store.Save(ctx, m); err != nil {
		return err
	}

	s.logger.Info("media deleted",
		zap.String("media_id", id),
		zap.String("user_id", userID),
		zap.String("storage_key", m.StorageKey),
	)
	return nil
}
