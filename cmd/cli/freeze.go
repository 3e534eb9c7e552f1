package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"ethfreeze/core"
	"ethfreeze/pkg/config"
)

var log = logrus.New()

// FreezeCmd is ethfreeze's single subcommand: `ethfreeze freeze <datatypes...> [flags]`,
// mirroring the original cryo invocation shape (spec.md §6) while still
// following the teacher's per-file cobra command convention.
var FreezeCmd = &cobra.Command{
	Use:   "freeze <datatype> [<datatype>...]",
	Short: "extract one or more Ethereum JSON-RPC datasets to columnar files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFreeze,
}

func init() {
	flags := FreezeCmd.Flags()

	// Content
	flags.StringSlice("blocks", nil, "block numbers or start:end ranges (default 17000000:17000100)")
	flags.StringSlice("include-columns", nil, "columns to include, overriding the datatype's default subset")
	flags.StringSlice("exclude-columns", nil, "columns to exclude from the selected subset")
	flags.StringSlice("address", nil, "address value(s) for datatypes keyed by address (balances, nonces, codes, storages, logs)")
	flags.StringSlice("contract", nil, "contract address value(s) for datatypes keyed by contract (erc20_*, erc721_*)")
	flags.StringSlice("to-address", nil, "to_address value(s) for datatypes keyed by call target (eth_calls, trace_calls)")
	flags.StringSlice("slot", nil, "storage slot value(s) for storages / erc721 token_id lookups")
	flags.StringSlice("topic0", nil, "topic0 filter value(s) for logs")
	flags.StringSlice("topic1", nil, "topic1 filter value(s) for logs")
	flags.StringSlice("topic2", nil, "topic2 filter value(s) for logs")
	flags.StringSlice("topic3", nil, "topic3 filter value(s) for logs")
	flags.StringSlice("call-data", nil, "0x-prefixed call data value(s) for eth_calls / trace_calls")

	// Source
	flags.String("rpc", "", "JSON-RPC endpoint URL (else $ETH_RPC_URL)")
	flags.String("network-name", "", "display name for output file names (else derived from chain_id)")
	flags.Bool("supports-trace", true, "node exposes the trace_* namespace (OpenEthereum/Erigon/Reth); disable for a plain full node")

	// Acquisition
	flags.Uint64("max-concurrent-requests", 0, "cap on in-flight RPC requests (0 = unbounded)")
	flags.Uint64("max-concurrent-chunks", 0, "cap on partitions processed concurrently")
	flags.Uint64("max-concurrent-blocks", 0, "cap on work items processed concurrently within one partition")
	flags.Int("log-request-size", 1, "max blocks spanned by one eth_getLogs call")
	flags.Bool("dry", false, "resolve and print the run configuration without issuing any RPC calls")

	// Output
	flags.Uint64("chunk-size", 1000, "blocks per partition")
	flags.Uint64("n-chunks", 0, "target partition count, alternative to --chunk-size")
	flags.String("output-dir", ".", "directory for output files and the run report")
	flags.Bool("csv", false, "write CSV output")
	flags.Bool("json", false, "write JSON output")
	flags.Bool("hex", false, "select hex encoding for binary columns (CSV and JSON output is 0x-prefixed hex either way)")
	flags.StringSlice("sort", nil, "custom sort columns; only valid with exactly one datatype")
	flags.Uint64("row-groups", 0, "parquet row group count (reserved, not read)")
	flags.Uint64("row-group-size", 0, "parquet row group size (reserved, not read)")
	flags.Bool("no-stats", false, "omit column statistics from parquet output (reserved)")
	flags.Bool("overwrite", false, "re-collect partitions even if their output file already exists")
	flags.Bool("gzip", false, "gzip-compress output files")

	// Ambient (not in spec.md §6, CLI ergonomics the teacher always includes)
	flags.String("log-level", "info", "trace|debug|info|warn|error")
	flags.String("config", "", "optional YAML config file (applies source.rpc_url, source.max_requests_per_second, output.format)")

	FreezeCmd.MarkFlagsMutuallyExclusive("csv", "json")
}

func runFreeze(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	_ = godotenv.Load()

	flags := cmd.Flags()
	logLevel, _ := flags.GetString("log-level")
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return core.BadParamsf("invalid --log-level %q: %v", logLevel, err)
	}
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	configPath, _ := flags.GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	datatypes, err := core.ParseDatatypeTokens(args)
	if err != nil {
		return err
	}

	rpcFlag, _ := flags.GetString("rpc")
	if rpcFlag == "" {
		rpcFlag = cfg.Source.RPCURL
	}
	rpcURL, err := resolveRPCURL(rpcFlag)
	if err != nil {
		return err
	}

	maxConcReq, _ := flags.GetUint64("max-concurrent-requests")
	maxConcChunks, _ := flags.GetUint64("max-concurrent-chunks")
	maxConcBlocks, _ := flags.GetUint64("max-concurrent-blocks")

	var rPtr, cPtr, bPtr *uint64
	if maxConcReq > 0 {
		rPtr = &maxConcReq
	}
	if maxConcChunks > 0 {
		cPtr = &maxConcChunks
	}
	if maxConcBlocks > 0 {
		bPtr = &maxConcBlocks
	}
	resolvedChunks, resolvedBlocks, err := core.Calibrate(rPtr, cPtr, bPtr)
	if err != nil {
		return err
	}

	maxRPS := cfg.Source.MaxRequestsPerSecond

	logRequestSize, _ := flags.GetInt("log-request-size")
	networkName, _ := flags.GetString("network-name")
	supportsTrace, _ := flags.GetBool("supports-trace")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Warn("received interrupt, cancelling outstanding work")
		cancel()
	}()

	src, err := core.NewSource(ctx, rpcURL, core.SourceOptions{
		MaxRequestsPerSecond:  float64(maxRPS),
		MaxConcurrentRequests: int64(maxConcReq),
		InnerRequestSize:      logRequestSize,
		SupportsTrace:         supportsTrace,
		NetworkName:           networkName,
	})
	if err != nil {
		return err
	}

	chunkSize, _ := flags.GetUint64("chunk-size")
	nChunks, _ := flags.GetUint64("n-chunks")
	if nChunks > 0 && !flags.Changed("chunk-size") {
		chunkSize = 0
	}
	blockTokens, _ := flags.GetStringSlice("blocks")
	partitions, err := parseBlocksFlag(blockTokens, chunkSize, nChunks)
	if err != nil {
		return err
	}

	valueDims, err := resolveValueDimInputs(flags)
	if err != nil {
		return err
	}
	partitions = attachValueDims(partitions, valueDims)

	if err := core.ValidatePartitions(datatypes, partitions); err != nil {
		return err
	}
	if err := core.ValidateTraceSupport(datatypes, src.SupportsTrace); err != nil {
		return err
	}

	includeCols, _ := flags.GetStringSlice("include-columns")
	excludeCols, _ := flags.GetStringSlice("exclude-columns")
	sortCols, _ := flags.GetStringSlice("sort")
	hexOut, _ := flags.GetBool("hex")
	encoding := core.EncodingBinary
	if hexOut {
		encoding = core.EncodingHex
	}
	schemaReq := core.SchemaRequest{
		IncludeColumns: splitColumnsFlag(includeCols),
		ExcludeColumns: splitColumnsFlag(excludeCols),
		BinaryEncoding: encoding,
	}
	schemas, err := core.BuildSchemas(datatypes, schemaReq, sortCols)
	if err != nil {
		return err
	}

	csvOut, _ := flags.GetBool("csv")
	jsonOut, _ := flags.GetBool("json")
	format := core.FormatCSV
	switch {
	case jsonOut:
		format = core.FormatJSON
	case csvOut:
		format = core.FormatCSV
	case cfg.Output.Format != "":
		format, err = core.ParseOutputFormat(cfg.Output.Format)
		if err != nil {
			return err
		}
	}

	outputDir, _ := flags.GetString("output-dir")
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return core.CollectErrorf("creating output dir %s: %w", outputDir, err)
	}

	gzipOut, _ := flags.GetBool("gzip")
	overwrite, _ := flags.GetBool("overwrite")

	dry, _ := flags.GetBool("dry")
	if dry {
		return printDryRun(cmd, src, datatypes, partitions, valueDims, format, outputDir)
	}

	reportPath := core.DefaultReportPath(outputDir)
	req := core.FreezeRequest{
		Source:              src,
		Datatypes:           datatypes,
		Schemas:             schemas,
		Partitions:          partitions,
		OutputDir:           outputDir,
		Format:              format,
		Gzip:                gzipOut,
		SkipIfExists:        !overwrite,
		MaxConcurrentChunks: resolvedChunks,
		MaxConcurrentBlocks: resolvedBlocks,
		ReportPath:          reportPath,
	}

	summary, err := core.Freeze(ctx, req)
	if err != nil {
		return err
	}
	core.LogSummary(log, summary)
	log.Infof("report written to %s", core.DisplayReportPath(outputDir, reportPath))
	return nil
}

func printDryRun(cmd *cobra.Command, src *core.Source, datatypes []core.Datatype, partitions []core.Partition, valueDims valueDimInputs, format core.OutputFormat, outputDir string) error {
	names := make([]string, 0, len(datatypes))
	for _, d := range datatypes {
		names = append(names, d.Name())
	}
	resolved := map[string]any{
		"chain_id":        src.ChainID,
		"network_name":    src.NetworkName,
		"rpc_url":         core.RedactRPCURL(src.RPCURL),
		"datatypes":       names,
		"partition_count": len(partitions),
		"output_dir":      outputDir,
		"format":          format.String(),
		"value_dims": map[string]any{
			"addresses":    len(valueDims.Addresses),
			"contracts":    len(valueDims.Contracts),
			"to_addresses": len(valueDims.ToAddresses),
			"slots":        len(valueDims.Slots),
			"topic0s":      len(valueDims.Topic0s),
			"topic1s":      len(valueDims.Topic1s),
			"topic2s":      len(valueDims.Topic2s),
			"topic3s":      len(valueDims.Topic3s),
			"call_datas":   len(valueDims.CallDatas),
		},
	}
	out, err := yaml.Marshal(resolved)
	if err != nil {
		return core.CollectErrorf("marshaling dry-run config: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(out))
	return nil
}
