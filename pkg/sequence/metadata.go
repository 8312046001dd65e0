package sequence

import (
	"context"

	"holdersnap/pkg/models"

	"go.uber.org/zap"
)

type GetContractInfoRequest struct {
	ChainID         string `json:"chainID"`
	ContractAddress string `json:"contractAddress"`
}

type GetContractInfoResponse struct {
	ContractInfo models.ContractInfo `json:"contractInfo"`
}

type GetTokenMetadataRequest struct {
	ChainID         string   `json:"chainID"`
	ContractAddress string   `json:"contractAddress"`
	TokenIDs        []string `json:"tokenIDs"`
}

// GetTokenMetadataResponse lists metadata in the order of the requested
// token IDs.
type GetTokenMetadataResponse struct {
	TokenMetadata []models.TokenMetadata `json:"tokenMetadata"`
}

// MetadataClient talks to the chain-independent metadata service.
type MetadataClient struct {
	t *transport
}

func NewMetadataClient(baseURL string, opts Options, logger *zap.Logger) *MetadataClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetadataClient{t: newTransport(baseURL, "Metadata", opts, logger.Named("MetadataClient"))}
}

func (c *MetadataClient) GetContractInfo(ctx context.Context, req GetContractInfoRequest) (*GetContractInfoResponse, error) {
	var out GetContractInfoResponse
	if err := c.t.call(ctx, "GetContractInfo", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *MetadataClient) GetTokenMetadata(ctx context.Context, req GetTokenMetadataRequest) (*GetTokenMetadataResponse, error) {
	var out GetTokenMetadataResponse
	if err := c.t.call(ctx, "GetTokenMetadata", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *MetadataClient) Ping(ctx context.Context) error {
	return c.t.ping(ctx)
}

func (c *MetadataClient) URL() string {
	return c.t.baseURL
}
