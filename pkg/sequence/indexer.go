package sequence

import (
	"context"

	"holdersnap/pkg/models"
	"holdersnap/pkg/paging"

	"go.uber.org/zap"
)

// PageRequest selects one page of a listing.
type PageRequest struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize,omitempty"`
}

type GetTokenBalancesRequest struct {
	ContractAddress string       `json:"contractAddress"`
	AccountAddress  string       `json:"accountAddress,omitempty"`
	IncludeMetadata bool         `json:"includeMetadata"`
	Page            *PageRequest `json:"page,omitempty"`
}

type GetTokenBalancesResponse struct {
	Page     paging.PageInfo  `json:"page"`
	Balances []models.Balance `json:"balances"`
}

// IndexerClient talks to the indexer of a single chain.
type IndexerClient struct {
	t *transport
}

func NewIndexerClient(baseURL string, opts Options, logger *zap.Logger) *IndexerClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IndexerClient{t: newTransport(baseURL, "Indexer", opts, logger.Named("IndexerClient"))}
}

func (c *IndexerClient) GetTokenBalances(ctx context.Context, req GetTokenBalancesRequest) (*GetTokenBalancesResponse, error) {
	var out GetTokenBalancesResponse
	if err := c.t.call(ctx, "GetTokenBalances", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *IndexerClient) Ping(ctx context.Context) error {
	return c.t.ping(ctx)
}

func (c *IndexerClient) URL() string {
	return c.t.baseURL
}
