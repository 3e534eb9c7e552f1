package config

// Package config provides a reusable loader for ethfreeze's optional config
// file, layered under CLI flags and environment variables. It is versioned
// so that applications can depend on a stable API contract.
//
// Version: v0.2.0

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"ethfreeze/pkg/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.2.0"

// Config mirrors the subset of ethfreeze's settings that are reasonable to
// pin in a config file (source/acquisition/output defaults). The freeze
// command (cmd/cli/freeze.go) applies source.rpc_url when --rpc is empty,
// source.max_requests_per_second, and output.format when neither --csv nor
// --json is set; the other fields are loaded but not applied.
type Config struct {
	Source struct {
		RPCURL                string `mapstructure:"rpc_url" json:"rpc_url"`
		NetworkName           string `mapstructure:"network_name" json:"network_name"`
		MaxRequestsPerSecond  uint64 `mapstructure:"max_requests_per_second" json:"max_requests_per_second"`
		MaxConcurrentRequests uint64 `mapstructure:"max_concurrent_requests" json:"max_concurrent_requests"`
		MaxConcurrentChunks   uint64 `mapstructure:"max_concurrent_chunks" json:"max_concurrent_chunks"`
		MaxConcurrentBlocks   uint64 `mapstructure:"max_concurrent_blocks" json:"max_concurrent_blocks"`
	} `mapstructure:"source" json:"source"`

	Output struct {
		Dir       string `mapstructure:"dir" json:"dir"`
		Format    string `mapstructure:"format" json:"format"`
		Hex       bool   `mapstructure:"hex" json:"hex"`
		Gzip      bool   `mapstructure:"gzip" json:"gzip"`
		ChunkSize uint64 `mapstructure:"chunk_size" json:"chunk_size"`
	} `mapstructure:"output" json:"output"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
	} `mapstructure:"logging" json:"logging"`
}

// Load reads the YAML config file at path, merges environment variables
// prefixed ETHFREEZE_ (dots in a key become underscores, e.g.
// ETHFREEZE_SOURCE_RPC_URL), and unmarshals the result. path may be empty,
// in which case only environment variables are consulted and a missing file
// is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("ETHFREEZE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Unmarshal only sees keys viper knows about, so bind every field's key.
	for _, key := range []string{
		"source.rpc_url", "source.network_name", "source.max_requests_per_second",
		"source.max_concurrent_requests", "source.max_concurrent_chunks", "source.max_concurrent_blocks",
		"output.dir", "output.format", "output.hex", "output.gzip", "output.chunk_size",
		"logging.level",
	} {
		_ = v.BindEnv(key)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, utils.Wrap(err, fmt.Sprintf("load config %s", path))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	return &cfg, nil
}
