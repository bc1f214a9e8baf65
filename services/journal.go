package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// JournalClient authorizes a user against a journal owned by the journal
// service. Implementations must fail closed: a check that cannot complete is an
// error, never a silent allow.
type JournalClient interface {
	// AssertOwnership returns nil when userID may write into journalID,
	// ErrOwnershipDenied when the journal service rejects the pair, and
	// ErrJournalUnavailable when the service cannot answer in time. An empty
	// journalID means the media is not journal-bound and passes without a
	// remote call.
	AssertOwnership(ctx context.Context, journalID, userID string) error
}

// HTTPJournalClient checks ownership via the journal service REST API.
type HTTPJournalClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewJournalClient builds a client with a bounded per-call timeout so an
// unresponsive journal service can never hang an upload request.
func NewJournalClient(baseURL string, timeout time.Duration, log *zap.Logger) *HTTPJournalClient {
	if timeout <= 0 {
		timeout = 4 * time.Second
	}
	return &HTTPJournalClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  log,
	}
}

func (j *HTTPJournalClient) AssertOwnership(ctx context.Context, journalID, userID string) error {
	if journalID == "" {
		return nil
	}

	endpoint := fmt.Sprintf("%s/journals/%s?userId=%s",
		j.baseURL, url.PathEscape(journalID), url.QueryEscape(userID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrJournalUnavailable, err)
	}

	resp, err := j.client.Do(req)
	if err != nil {
		j.logger.Warn("journal ownership check unreachable",
			zap.String("journal_id", journalID), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrJournalUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		// Not found and not owned both mean the user may not touch this journal.
		return fmt.Errorf("%w: journal %s user %s (status %d)", ErrOwnershipDenied, journalID, userID, resp.StatusCode)
	default:
		return fmt.Errorf("%w: journal service returned %d", ErrJournalUnavailable, resp.StatusCode)
	}
}
