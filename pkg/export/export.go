// Package export renders holder balances as CSV.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"holdersnap/pkg/chains"
	"holdersnap/pkg/models"
)

// MIMEType is the content type served with CSV downloads.
const MIMEType = "text/csv;charset=utf-8"

var header = []string{"address", "balance"}

// CSV renders one row per balance under an "address,balance" header. Rows are
// separated by a newline and the last row has none. Fields are quoted per
// RFC 4180 when they hold a comma, a quote or leading whitespace; indexer
// addresses and balances never do.
func CSV(balances []models.Balance) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(header)
	for _, b := range balances {
		_ = w.Write([]string{b.AccountAddress, b.Balance})
	}
	w.Flush()

	out := buf.String()
	if len(balances) > 0 {
		out = strings.TrimSuffix(out, "\n")
	}
	return out
}

// Filename builds holders-<chain>-<address>[-<tokenID>].csv. The token part
// is only added when the token ID actually filtered the holders. Anything but
// letters and digits is dropped from the address.
func Filename(chain chains.Chain, q models.Query) string {
	name := strings.ToLower(strings.ReplaceAll(chain.Name, " ", "-"))
	parts := []string{"holders", name, fileSafe(strings.ToLower(q.Address))}
	if q.HasTokenFilter() {
		parts = append(parts, q.TokenID)
	}
	return strings.Join(parts, "-") + ".csv"
}

func fileSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			return r
		}
		return -1
	}, s)
}

// WriteFile saves the CSV for q into dir and returns the written path.
func WriteFile(dir string, chain chains.Chain, q models.Query, balances []models.Balance) (string, error) {
	if len(balances) == 0 {
		return "", fmt.Errorf("no holders to export")
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	name := Filename(chain, q)
	if filepath.Base(name) != name {
		return "", fmt.Errorf("invalid export file name %q", name)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(CSV(balances)), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
