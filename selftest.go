package main

import (
	"context"
	"fmt"
	"io"

	"holdersnap/pkg/chains"
	"holdersnap/pkg/config"
	"holdersnap/pkg/models"
	"holdersnap/pkg/rpc"
	"holdersnap/pkg/sequence"

	"golang.org/x/sync/errgroup"
)

// selfTestParallelism bounds how many endpoints are probed at once.
const selfTestParallelism = 4

// runSelfTest validates the configuration, pings the metadata service and
// every chain's indexer, and checks that each configured JSON-RPC endpoint
// serves the chain it is listed under.
func runSelfTest(ctx context.Context, cfg config.Config, path string, loadErr error, src *sequence.Source) models.TestReport {
	report := models.TestReport{ConfigPath: path, ValidStructure: true}
	if loadErr != nil {
		report.StructureErrors = append(report.StructureErrors, fmt.Sprintf("failed to load config: %v", loadErr))
	}
	report.StructureErrors = append(report.StructureErrors, cfg.Validate()...)
	report.ValidStructure = len(report.StructureErrors) == 0

	report.Metadata = ping(ctx, "metadata", src.Metadata().URL(), src.Metadata().Ping)

	all := chains.All()
	report.Chains = make([]models.ChainResult, len(all))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(selfTestParallelism)
	for i, c := range all {
		g.Go(func() error {
			res := models.ChainResult{Name: c.Name, ChainID: int64(c.ID)}
			idx, err := src.Indexer(c.ID)
			if err != nil {
				res.Indexer = models.ServiceResult{Name: "indexer", Status: "error", Error: err.Error()}
			} else {
				res.Indexer = ping(gctx, "indexer", idx.URL(), idx.Ping)
			}
			for _, url := range cfg.RPCURLs(c) {
				res.RPCs = append(res.RPCs, rpc.CheckRPC(gctx, url, c.ID))
			}
			report.Chains[i] = res
			return nil
		})
	}
	_ = g.Wait()

	report.Healthy = report.ValidStructure && report.Metadata.Status == "ok"
	for _, c := range report.Chains {
		if c.Indexer.Status != "ok" {
			report.Healthy = false
		}
		for _, r := range c.RPCs {
			if r.Status != "ok" {
				report.Healthy = false
			}
		}
	}
	return report
}

func ping(ctx context.Context, name, url string, fn func(context.Context) error) models.ServiceResult {
	res := models.ServiceResult{Name: name, URL: url, Status: "ok"}
	if err := fn(ctx); err != nil {
		res.Status = "error"
		res.Error = err.Error()
	}
	return res
}

func printReport(w io.Writer, report models.TestReport) {
	fmt.Fprintf(w, "Testing configuration at: %s\n", report.ConfigPath)
	for _, e := range report.StructureErrors {
		fmt.Fprintf(w, "Error: %s\n", e)
	}

	fmt.Fprintf(w, "Metadata service %s ... %s\n", report.Metadata.URL, statusText(report.Metadata.Status, report.Metadata.Error))
	for _, c := range report.Chains {
		fmt.Fprintf(w, "Chain: %s (%d)\n", c.Name, c.ChainID)
		fmt.Fprintf(w, "  Indexer: %s ... %s\n", c.Indexer.URL, statusText(c.Indexer.Status, c.Indexer.Error))
		for _, r := range c.RPCs {
			detail := r.Error
			if r.Status == "ok" {
				detail = fmt.Sprintf("block %d, %dms", r.BlockNumber, r.LatencyMS)
			}
			fmt.Fprintf(w, "  RPC: %s ... %s\n", r.URL, statusText(r.Status, detail))
		}
	}

	if report.Healthy {
		fmt.Fprintln(w, "\nAll checks passed.")
	} else {
		fmt.Fprintln(w, "\nSome checks failed.")
	}
}

func statusText(status, detail string) string {
	if status == "ok" {
		if detail != "" {
			return "OK (" + detail + ")"
		}
		return "OK"
	}
	return "FAILED: " + detail
}
