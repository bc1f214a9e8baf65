package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tripwise/tripmedia/models"
)

// fakeMediaStore keeps records in a map, handing out copies so tests can assert
// that failed operations leave stored state untouched.
type fakeMediaStore struct {
	records map[string]models.Media
	saveErr error
}

func newFakeMediaStore() *fakeMediaStore {
	return &fakeMediaStore{records: map[string]models.Media{}}
}

func (f *fakeMediaStore) Save(_ context.Context, m *models.Media) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.records[m.ID] = *m
	return nil
}

func (f *fakeMediaStore) FindByID(_ context.Context, id string) (*models.Media, error) {
	m, ok := f.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := m
	return &copied, nil
}

func (f *fakeMediaStore) FindByIDs(_ context.Context, ids []string) ([]models.Media, error) {
	var out []models.Media
	for _, id := range ids {
		if m, ok := f.records[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeStorage struct {
	presigned  []string
	deleted    []string
	presignErr error
	deleteErr  error
	publicBase string
}

func (f *fakeStorage) PresignPut(_ context.Context, key, contentType string, sizeBytes int64) (PresignedPut, error) {
	if f.presignErr != nil {
		return PresignedPut{}, f.presignErr
	}
	f.presigned = append(f.presigned, key)
	return PresignedPut{
		StorageKey: key,
		URL:        fmt.Sprintf("https://storage.test/%s?sig=abc&size=%d", key, sizeBytes),
		Headers:    map[string]string{"Content-Type": contentType},
	}, nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	// Deleting a key that was never uploaded is fine; record it either way.
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStorage) PublicURL(key string) string {
	if f.publicBase == "" {
		return ""
	}
	return f.publicBase + "/" + key
}

type fakeJournals struct {
	err   error
	calls int
}

func (f *fakeJournals) AssertOwnership(_ context.Context, journalID, _ string) error {
	if journalID == "" {
		return nil
	}
	f.calls++
	return f.err
}

func newTestService() (*MediaService, *fakeMediaStore, *fakeStorage, *fakeJournals) {
	store := newFakeMediaStore()
	storage := &fakeStorage{publicBase: "https://cdn.test"}
	journals := &fakeJournals{}
	return NewMediaService(store, storage, journals, zap.NewNop()), store, storage, journals
}

func initReq() InitUploadRequest {
	return InitUploadRequest{JournalID: "j1", FileName: "trip.png", MimeType: "image/png", Bytes: 204800}
}

func TestInitUploadHappyPath(t *testing.T) {
	svc, store, _, _ := newTestService()

	resp, err := svc.InitUpload(context.Background(), "u1", initReq())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.MediaID)
	assert.Equal(t, "u1/"+resp.MediaID+"/trip.png", resp.StorageKey)
	assert.NotEmpty(t, resp.UploadURL)
	assert.Equal(t, "image/png", resp.Headers["Content-Type"])

	m, ok := store.records[resp.MediaID]
	require.True(t, ok)
	assert.Equal(t, models.StatusUploading, m.Status)
	assert.Equal(t, "u1", m.UserID)
	assert.Equal(t, "j1", m.JournalID)
	assert.Equal(t, int64(204800), m.Bytes)
	assert.Equal(t, resp.StorageKey, m.StorageKey)
	assert.Equal(t, "https://cdn.test/"+resp.StorageKey, m.CdnURL)
	assert.Empty(t, m.Checksum)
}

func TestInitUploadOwnershipDeniedPersistsNothing(t *testing.T) {
	svc, store, storage, journals := newTestService()
	journals.err = ErrOwnershipDenied

	_, err := svc.InitUpload(context.Background(), "u1", initReq())
	require.ErrorIs(t, err, ErrOwnershipDenied)
	assert.Empty(t, store.records)
	assert.Empty(t, storage.presigned)
}

func TestInitUploadJournalUnreachableFails(t *testing.T) {
	svc, store, _, journals := newTestService()
	journals.err = ErrJournalUnavailable

	_, err := svc.InitUpload(context.Background(), "u1", initReq())
	require.ErrorIs(t, err, ErrJournalUnavailable)
	assert.Empty(t, store.records)
}

func TestInitUploadStorageFailurePersistsNothing(t *testing.T) {
	svc, store, storage, _ := newTestService()
	storage.presignErr = errors.New("presign blew up")

	_, err := svc.InitUpload(context.Background(), "u1", initReq())
	require.Error(t, err)
	assert.Empty(t, store.records)
}

func TestInitUploadValidation(t *testing.T) {
	svc, _, _, journals := newTestService()

	cases := []InitUploadRequest{
		{FileName: "", MimeType: "image/png", Bytes: 10},
		{FileName: "a.png", MimeType: "", Bytes: 10},
		{FileName: "a.png", MimeType: "image/png", Bytes: 0},
		{FileName: "a.png", MimeType: "image/png", Bytes: -5},
	}
	for _, req := range cases {
		_, err := svc.InitUpload(context.Background(), "u1", req)
		assert.ErrorIs(t, err, ErrInvalidRequest)
	}
	// Validation rejects before any collaborator is contacted.
	assert.Zero(t, journals.calls)
}

func TestInitUploadWithoutJournalSkipsOwnershipCheck(t *testing.T) {
	svc, store, _, journals := newTestService()
	journals.err = ErrOwnershipDenied // would fail if called

	req := initReq()
	req.JournalID = ""
	resp, err := svc.InitUpload(context.Background(), "u1", req)
	require.NoError(t, err)
	assert.Zero(t, journals.calls)
	assert.Contains(t, store.records, resp.MediaID)
}

func TestInitUploadMintsUniqueIDs(t *testing.T) {
	svc, _, _, _ := newTestService()

	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		resp, err := svc.InitUpload(context.Background(), "u1", initReq())
		require.NoError(t, err)
		_, dup := seen[resp.MediaID]
		require.False(t, dup, "media id %s repeated", resp.MediaID)
		seen[resp.MediaID] = struct{}{}
	}
}

func TestConfirmUploadTransitionsToReady(t *testing.T) {
	svc, store, _, _ := newTestService()

	resp, err := svc.InitUpload(context.Background(), "u1", initReq())
	require.NoError(t, err)

	width, height := 1024, 768
	view, err := svc.ConfirmUpload(context.Background(), "u1", ConfirmUploadRequest{
		MediaID:  resp.MediaID,
		Checksum: "abc123",
		Bytes:    204800,
		Width:    &width,
		Height:   &height,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusReady, view.Status)
	assert.Equal(t, "Ready", view.Status.Label())
	assert.Equal(t, "abc123", view.Checksum)
	assert.Equal(t, int64(204800), view.Bytes)
	require.NotNil(t, view.Width)
	assert.Equal(t, 1024, *view.Width)
	require.NotNil(t, view.Height)
	assert.Equal(t, 768, *view.Height)

	stored := store.records[resp.MediaID]
	assert.Equal(t, models.StatusReady, stored.Status)
	assert.Equal(t, "abc123", stored.Checksum)
}

func TestConfirmUploadWrongOwnerDoesNotMutate(t *testing.T) {
	svc, store, _, _ := newTestService()

	resp, err := svc.InitUpload(context.Background(), "u1", initReq())
	require.NoError(t, err)

	_, err = svc.ConfirmUpload(context.Background(), "u2", ConfirmUploadRequest{
		MediaID:  resp.MediaID,
		Checksum: "evil",
		Bytes:    1,
	})
	require.ErrorIs(t, err, ErrNotOwner)

	stored := store.records[resp.MediaID]
	assert.Equal(t, models.StatusUploading, stored.Status)
	assert.Empty(t, stored.Checksum)
	assert.Equal(t, int64(204800), stored.Bytes)
}

func TestConfirmUploadDeletedMediaStaysDeleted(t *testing.T) {
	svc, store, _, _ := newTestService()

	resp, err := svc.InitUpload(context.Background(), "u1", initReq())
	require.NoError(t, err)
	require.NoError(t, svc.DeleteMedia(context.Background(), resp.MediaID, "u1"))

	_, err = svc.ConfirmUpload(context.Background(), "u1", ConfirmUploadRequest{
		MediaID:  resp.MediaID,
		Checksum: "late",
		Bytes:    204800,
	})
	require.ErrorIs(t, err, ErrTerminalState)

	stored := store.records[resp.MediaID]
	assert.Equal(t, models.StatusDeleted, stored.Status)
	assert.Empty(t, stored.Checksum)
}

func TestConfirmUploadFailedMediaRejected(t *testing.T) {
	svc, store, _, _ := newTestService()
	store.records["m1"] = models.Media{ID: "m1", UserID: "u1", Status: models.StatusFailed}

	_, err := svc.ConfirmUpload(context.Background(), "u1", ConfirmUploadRequest{
		MediaID:  "m1",
		Checksum: "abc",
		Bytes:    10,
	})
	require.ErrorIs(t, err, ErrTerminalState)
	assert.Equal(t, models.StatusFailed, store.records["m1"].Status)
}

func TestDeleteMediaFailedMediaRejected(t *testing.T) {
	svc, store, storage, _ := newTestService()
	store.records["m1"] = models.Media{ID: "m1", UserID: "u1", StorageKey: "u1/m1/a.png", Status: models.StatusFailed}

	err := svc.DeleteMedia(context.Background(), "m1", "u1")
	require.ErrorIs(t, err, ErrTerminalState)
	assert.Equal(t, models.StatusFailed, store.records["m1"].Status)
	assert.Empty(t, storage.deleted)
}

func TestConfirmUploadUnknownMedia(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.ConfirmUpload(context.Background(), "u1", ConfirmUploadRequest{
		MediaID:  "nope",
		Checksum: "abc",
		Bytes:    1,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetMedia(t *testing.T) {
	svc, _, _, _ := newTestService()

	resp, err := svc.InitUpload(context.Background(), "u1", initReq())
	require.NoError(t, err)

	view, err := svc.GetMedia(context.Background(), resp.MediaID)
	require.NoError(t, err)
	assert.Equal(t, resp.MediaID, view.ID)
	assert.Equal(t, "trip.png", view.Filename)
	assert.NotNil(t, view.Tags)
	assert.NotNil(t, view.Variants)

	_, err = svc.GetMedia(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetMediaBatchOmitsMissing(t *testing.T) {
	svc, _, _, _ := newTestService()

	first, err := svc.InitUpload(context.Background(), "u1", initReq())
	require.NoError(t, err)
	second, err := svc.InitUpload(context.Background(), "u1", initReq())
	require.NoError(t, err)

	views, err := svc.GetMediaBatch(context.Background(), []string{first.MediaID, second.MediaID, "missing"})
	require.NoError(t, err)
	require.Len(t, views, 2)

	got := map[string]bool{}
	for _, v := range views {
		got[v.ID] = true
	}
	assert.True(t, got[first.MediaID])
	assert.True(t, got[second.MediaID])
}

func TestDeleteMediaSoftDeletesAndRemovesObject(t *testing.T) {
	svc, store, storage, _ := newTestService()

	resp, err := svc.InitUpload(context.Background(), "u1", initReq())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMedia(context.Background(), resp.MediaID, "u1"))

	stored := store.records[resp.MediaID]
	assert.Equal(t, models.StatusDeleted, stored.Status)
	assert.Equal(t, []string{resp.StorageKey}, storage.deleted)

	// Deleting again stays DELETED without error and without a second
	// storage round-trip.
	require.NoError(t, svc.DeleteMedia(context.Background(), resp.MediaID, "u1"))
	stored = store.records[resp.MediaID]
	assert.Equal(t, models.StatusDeleted, stored.Status)
	assert.Len(t, storage.deleted, 1)
}

func TestDeleteMediaWrongOwner(t *testing.T) {
	svc, store, storage, _ := newTestService()

	resp, err := svc.InitUpload(context.Background(), "u1", initReq())
	require.NoError(t, err)

	err = svc.DeleteMedia(context.Background(), resp.MediaID, "u2")
	require.ErrorIs(t, err, ErrNotOwner)
	assert.Empty(t, storage.deleted)
	assert.Equal(t, models.StatusUploading, store.records[resp.MediaID].Status)
}

func TestDeleteMediaWithoutStorageKeyStillTransitions(t *testing.T) {
	svc, store, storage, _ := newTestService()

	store.records["m1"] = models.Media{ID: "m1", UserID: "u1", Status: models.StatusUploading}

	require.NoError(t, svc.DeleteMedia(context.Background(), "m1", "u1"))
	assert.Equal(t, models.StatusDeleted, store.records["m1"].Status)
	assert.Empty(t, storage.deleted)
}

func TestDeleteMediaUnknownID(t *testing.T) {
	svc, _, _, _ := newTestService()
	assert.ErrorIs(t, svc.DeleteMedia(context.Background(), "missing", "u1"), ErrNotFound)
}
