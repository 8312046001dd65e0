package loader

import (
	"errors"

	"holdersnap/pkg/models"
	"holdersnap/pkg/sequence"
)

// State is what the presentation layer renders. Exactly one of Empty,
// Fetching, Ok and Error is current at any time.
type State interface {
	// Kind names the variant: "empty", "fetching", "ok" or "error".
	Kind() string
	isState()
}

// Empty means no contract address has been entered.
type Empty struct{}

// Fetching means a load for Query is in flight.
type Fetching struct {
	Query models.Query
}

// Ok carries a completed load.
type Ok struct {
	Query        models.Query
	Balances     []models.Balance
	ContractInfo models.ContractInfo
	TokenInfo    *models.TokenMetadata
}

// Error carries the message of a failed load.
type Error struct {
	Query   models.Query
	Message string
}

func (Empty) Kind() string    { return "empty" }
func (Fetching) Kind() string { return "fetching" }
func (Ok) Kind() string       { return "ok" }
func (Error) Kind() string    { return "error" }

func (Empty) isState()    {}
func (Fetching) isState() {}
func (Ok) isState()       {}
func (Error) isState()    {}

// FilterByTokenID returns the balances whose token ID equals tokenID, in
// their original order. The input slice is left untouched.
func FilterByTokenID(balances []models.Balance, tokenID string) []models.Balance {
	out := make([]models.Balance, 0, len(balances))
	for _, b := range balances {
		if b.TokenID == tokenID {
			out = append(out, b)
		}
	}
	return out
}

// ErrorMessage picks the text shown for a failed load: the "error" field of
// a webrpc error payload when there is one, otherwise the error string.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var werr *sequence.WebRPCError
	if errors.As(err, &werr) && werr.Name != "" {
		return werr.Name
	}
	return err.Error()
}
