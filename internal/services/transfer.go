package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hannaddev/journal-tracker/internal/models"
	"github.com/hannaddev/journal-tracker/internal/store"
	srvErrors "github.com/hannaddev/journal-tracker/pkg/errors"
)

// Transfer serializes the full state document for download and merges
// uploaded documents back in additively.
type Transfer struct {
	store     *store.Store
	sessionID string
	log       *zap.SugaredLogger
}

func NewTransferService(st *store.Store, sessionID string) *Transfer {
	return &Transfer{
		store:     st,
		sessionID: sessionID,
		log:       zap.S().Named("transfer_service"),
	}
}

// Export returns the serialized document and its deterministic filename,
// derived from the session identifier and the export instant.
func (t *Transfer) Export(now time.Time) (string, []byte, error) {
	data, err := t.store.Export()
	if err != nil {
		return "", nil, err
	}

	filename := fmt.Sprintf("journal-tracker-%s-%s.json", t.sessionID, now.UTC().Format("20060102-150405"))
	return filename, data, nil
}

// Import merges a previously exported document. Only ids absent from the
// current store are added; malformed or wrong-shaped input aborts with an
// ImportFormatError and no partial merge.
func (t *Transfer) Import(ctx context.Context, data []byte) (models.ImportResult, error) {
	incoming := store.NewDocument()
	if err := json.Unmarshal(data, incoming); err != nil {
		return models.ImportResult{}, srvErrors.NewImportFormatError(err.Error())
	}

	result, err := t.store.Merge(ctx, incoming)
	if err != nil {
		return result, err
	}

	t.log.Infow("imported document", "added", result.Added, "skipped", result.Skipped)
	return result, nil
}
