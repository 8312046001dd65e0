package sequence

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"holdersnap/pkg/chains"
	"holdersnap/pkg/config"
	"holdersnap/pkg/models"
	"holdersnap/pkg/paging"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Source serves contract info, token metadata and balance pages for every
// supported chain.
type Source struct {
	metadata      *MetadataClient
	indexers      map[chains.ID]*IndexerClient
	holderAccount string
}

// NewSource builds one indexer client per supported chain plus the metadata
// client. All of them share a single rate limiter when one is configured.
func NewSource(cfg config.Config, logger *zap.Logger) *Source {
	opts := Options{
		AccessKey: cfg.AccessKey,
		Timeout:   cfg.RequestTimeout(),
	}
	if cfg.RequestsPerSecond > 0 {
		burst := int(math.Ceil(cfg.RequestsPerSecond))
		opts.Limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	s := &Source{
		metadata:      NewMetadataClient(cfg.MetadataURL, opts, logger),
		indexers:      make(map[chains.ID]*IndexerClient),
		holderAccount: cfg.HolderAccount,
	}
	for _, c := range chains.All() {
		s.indexers[c.ID] = NewIndexerClient(cfg.IndexerURL(c), opts, logger)
	}
	return s
}

func (s *Source) indexer(chain chains.ID) (*IndexerClient, error) {
	c, ok := s.indexers[chain]
	if !ok {
		return nil, fmt.Errorf("no indexer for chain %d", chain)
	}
	return c, nil
}

func (s *Source) Indexer(chain chains.ID) (*IndexerClient, error) {
	return s.indexer(chain)
}

func (s *Source) Metadata() *MetadataClient {
	return s.metadata
}

func (s *Source) ContractInfo(ctx context.Context, chain chains.ID, address string) (models.ContractInfo, error) {
	resp, err := s.metadata.GetContractInfo(ctx, GetContractInfoRequest{
		ChainID:         strconv.FormatInt(int64(chain), 10),
		ContractAddress: address,
	})
	if err != nil {
		return models.ContractInfo{}, err
	}
	return resp.ContractInfo, nil
}

// TokenMetadata returns nil when the service knows nothing about tokenID.
func (s *Source) TokenMetadata(ctx context.Context, chain chains.ID, address, tokenID string) (*models.TokenMetadata, error) {
	resp, err := s.metadata.GetTokenMetadata(ctx, GetTokenMetadataRequest{
		ChainID:         strconv.FormatInt(int64(chain), 10),
		ContractAddress: address,
		TokenIDs:        []string{tokenID},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.TokenMetadata) == 0 {
		return nil, nil
	}
	md := resp.TokenMetadata[0]
	return &md, nil
}

func (s *Source) TokenBalances(ctx context.Context, chain chains.ID, address string, page int) (paging.PageInfo, []models.Balance, error) {
	idx, err := s.indexer(chain)
	if err != nil {
		return paging.PageInfo{}, nil, err
	}
	resp, err := idx.GetTokenBalances(ctx, GetTokenBalancesRequest{
		ContractAddress: address,
		AccountAddress:  s.holderAccount,
		Page:            &PageRequest{Page: page},
	})
	if err != nil {
		return paging.PageInfo{}, nil, err
	}
	return resp.Page, resp.Balances, nil
}
