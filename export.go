package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"holdersnap/pkg/chains"
	"holdersnap/pkg/export"
	"holdersnap/pkg/loader"
	"holdersnap/pkg/models"
)

// runExport loads one contract through the coordinator and writes its CSV to
// out, or to stdout when out is empty. The summary line goes to stderr.
func runExport(ctx context.Context, coord *loader.Coordinator, chain chains.Chain, contract, tokenID, out string) error {
	st, err := loadOnce(ctx, coord, models.Query{Chain: chain.ID, Address: contract, TokenID: tokenID})
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, loader.Summarize(st).String())

	if out == "" {
		if err := writeCSV(os.Stdout, st); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout)
		return nil
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	defer func() { _ = f.Close() }()
	return writeCSV(f, st)
}

func loadOnce(ctx context.Context, coord *loader.Coordinator, q models.Query) (loader.Ok, error) {
	if q.Normalized().Address == "" {
		return loader.Ok{}, fmt.Errorf("contract address is required")
	}
	coord.SetQuery(ctx, q)
	coord.Wait()

	switch st := coord.State().(type) {
	case loader.Ok:
		return st, nil
	case loader.Error:
		return loader.Ok{}, fmt.Errorf("load failed: %s", st.Message)
	default:
		return loader.Ok{}, fmt.Errorf("unexpected state %q", st.Kind())
	}
}

func writeCSV(w io.Writer, st loader.Ok) error {
	if len(st.Balances) == 0 {
		return fmt.Errorf("contract has no holders")
	}
	_, err := io.WriteString(w, export.CSV(st.Balances))
	return err
}
