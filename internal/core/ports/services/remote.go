package services

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/soerenkp/ecosync/internal/economic"
)

// RemoteClient is the per-agreement view of the accounting API used by the
// sync services. economic.Client is the production implementation.
type RemoteClient interface {
	Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error)
	FetchAllPages(ctx context.Context, path string, query url.Values) ([]json.RawMessage, error)
	SelfInfo(ctx context.Context) (economic.SelfInfo, error)
}

// RemoteClientFactory builds a client bound to one agreement grant token.
// Sync services never read ambient credential configuration; every client
// they use arrives through this factory.
type RemoteClientFactory func(grantToken string) RemoteClient
