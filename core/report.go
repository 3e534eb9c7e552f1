package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// FreezeOutcome classifies how one partition/datatype unit finished,
// mirroring original_source's summaries.rs bucket of completed/skipped/
// errored file paths.
type FreezeOutcome struct {
	Datatype string `json:"datatype"`
	Identity string `json:"identity"`
	Path     string `json:"path,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ResolvedQuery captures the fully-resolved request shape for the report,
// independent of how many Partitions/Datatypes actually ran to completion.
type ResolvedQuery struct {
	Datatypes      []string `json:"datatypes"`
	PartitionCount int      `json:"partition_count"`
	ChunkSize      uint64   `json:"chunk_size,omitempty"`
}

// ResolvedSource captures the connection/concurrency parameters a report
// records alongside the run, with the RPC URL redacted of any credentials.
type ResolvedSource struct {
	ChainID               uint64  `json:"chain_id"`
	NetworkName           string  `json:"network_name"`
	RPCURL                string  `json:"rpc_url"`
	MaxRequestsPerSecond  float64 `json:"max_requests_per_second,omitempty"`
	MaxConcurrentRequests int64   `json:"max_concurrent_requests,omitempty"`
	MaxConcurrentChunks   uint64  `json:"max_concurrent_chunks"`
	MaxConcurrentBlocks   uint64  `json:"max_concurrent_blocks"`
}

// FreezeSummary is the full accounting of one freeze() run, serialized
// alongside the output files as a run report (spec.md §4.7).
type FreezeSummary struct {
	RunID     string          `json:"run_id"`
	ChainID   uint64          `json:"chain_id"`
	Query     ResolvedQuery   `json:"query"`
	Source    ResolvedSource  `json:"source"`
	Started   time.Time       `json:"started"`
	Finished  time.Time       `json:"finished"`
	Completed []FreezeOutcome `json:"completed"`
	Skipped   []FreezeOutcome `json:"skipped"`
	Errored   []FreezeOutcome `json:"errored"`
}

// NewRunID generates a fresh run identifier for one freeze() invocation.
func NewRunID() string {
	return uuid.NewString()
}

// DefaultReportPath derives the report file's path from the output
// directory and the current time (spec.md §4.7: "derived from output dir +
// timestamp").
func DefaultReportPath(outputDir string) string {
	return filepath.Join(outputDir, fmt.Sprintf("freeze_report_%s.json", time.Now().UTC().Format("20060102_150405")))
}

// DisplayReportPath renders path relative to outputDir when path lies
// under it, prefixed "$OUTPUT_DIR/…" (spec.md §4.7), else returns path
// unchanged.
func DisplayReportPath(outputDir, path string) string {
	rel, err := filepath.Rel(outputDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return "$OUTPUT_DIR/" + filepath.ToSlash(rel)
}

func (s *FreezeSummary) addCompleted(datatype, identity, path string) {
	s.Completed = append(s.Completed, FreezeOutcome{Datatype: datatype, Identity: identity, Path: path})
}

func (s *FreezeSummary) addSkipped(datatype, identity, path string) {
	s.Skipped = append(s.Skipped, FreezeOutcome{Datatype: datatype, Identity: identity, Path: path})
}

func (s *FreezeSummary) addErrored(datatype, identity string, err error) {
	s.Errored = append(s.Errored, FreezeOutcome{Datatype: datatype, Identity: identity, Error: err.Error()})
}

// WriteReport marshals the summary as JSON to path.
func WriteReport(path string, summary FreezeSummary) error {
	f, err := os.Create(path)
	if err != nil {
		return CollectErrorf("creating report file: %w", err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return CollectErrorf("writing report: %w", err)
	}
	return nil
}

// LogSummary prints the run's bullet-point summary via logrus, grounded on
// original_source's print_header/print_bullet layout: a header line, bullets
// for the chain id and the total completed/skipped/errored counts, then one
// line per errored (datatype, partition) with its error.
func LogSummary(log *logrus.Logger, summary FreezeSummary) {
	log.Infof("freeze run %s finished in %s", summary.RunID, summary.Finished.Sub(summary.Started))
	log.Infof("- chain_id: %d", summary.ChainID)
	log.Infof("- completed: %d", len(summary.Completed))
	log.Infof("- skipped (already existed): %d", len(summary.Skipped))
	log.Infof("- errored: %d", len(summary.Errored))
	for _, e := range summary.Errored {
		log.Errorf("  %s %s: %s", e.Datatype, e.Identity, e.Error)
	}
}
