// Package config provides a reusable loader for blockfreeze configuration
// files and environment variables. It is versioned so that applications can
// depend on a stable API contract.
//
// Version: v0.1.0
package config

import (
	"strings"

	"github.com/spf13/viper"

	"blockfreeze/pkg/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.1.0"

// Config mirrors the CLI surface described in SPEC_FULL.md §6: RPC
// connection, flow control, chunking/partitioning, output, and report
// settings, loaded (in increasing precedence) from a YAML file and
// environment variables prefixed BLOCKFREEZE_. CLI flags are not merged
// into it: cmd/blockfreeze takes its run settings from its flags and reads
// only logging.level from the loaded configuration.
type Config struct {
	RPC struct {
		URL         string `mapstructure:"url" json:"url"`
		NetworkName string `mapstructure:"network_name" json:"network_name"`
	} `mapstructure:"rpc" json:"rpc"`

	RateLimit struct {
		RequestsPerSecond   float64 `mapstructure:"requests_per_second" json:"requests_per_second"`
		MaxRetries          int     `mapstructure:"max_retries" json:"max_retries"`
		InitialBackoffMS    int     `mapstructure:"initial_backoff_ms" json:"initial_backoff_ms"`
		MaxConcurrentReqs   int64   `mapstructure:"max_concurrent_requests" json:"max_concurrent_requests"`
		MaxConcurrentChunks int64   `mapstructure:"max_concurrent_chunks" json:"max_concurrent_chunks"`
		InnerRequestSize    uint64  `mapstructure:"inner_request_size" json:"inner_request_size"`
	} `mapstructure:"rate_limit" json:"rate_limit"`

	Chunking struct {
		ChunkSize   uint64 `mapstructure:"chunk_size" json:"chunk_size"`
		NChunks     uint64 `mapstructure:"n_chunks" json:"n_chunks"`
		Align       bool   `mapstructure:"align" json:"align"`
		ReorgBuffer uint64 `mapstructure:"reorg_buffer" json:"reorg_buffer"`
	} `mapstructure:"chunking" json:"chunking"`

	Output struct {
		Dir               string `mapstructure:"dir" json:"dir"`
		FileSuffix        string `mapstructure:"file_suffix" json:"file_suffix"`
		Overwrite         bool   `mapstructure:"overwrite" json:"overwrite"`
		CSV               bool   `mapstructure:"csv" json:"csv"`
		JSON              bool   `mapstructure:"json" json:"json"`
		RowGroupSize      uint64 `mapstructure:"row_group_size" json:"row_group_size"`
		NRowGroups        uint64 `mapstructure:"n_row_groups" json:"n_row_groups"`
		NoStats           bool   `mapstructure:"no_stats" json:"no_stats"`
		Compression       string `mapstructure:"compression" json:"compression"`
	} `mapstructure:"output" json:"output"`

	Report struct {
		Dir      string `mapstructure:"dir" json:"dir"`
		Disabled bool   `mapstructure:"disabled" json:"disabled"`
	} `mapstructure:"report" json:"report"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
		File  string `mapstructure:"file" json:"file"`
	} `mapstructure:"logging" json:"logging"`

	Metrics struct {
		Addr string `mapstructure:"addr" json:"addr"`
	} `mapstructure:"metrics" json:"metrics"`
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

// Load reads an optional configuration file (if present on the search path)
// and layers BLOCKFREEZE_-prefixed environment variables on top, storing the
// result in AppConfig. env selects an additional config file to merge (e.g.
// "local", "ci"); an empty env skips the merge.
func Load(env string) (*Config, error) {
	viper.SetConfigName("blockfreeze")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.blockfreeze")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, utils.Wrap(err, "load config")
		}
	}

	if env != "" {
		viper.SetConfigName("blockfreeze." + env)
		if err := viper.MergeInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, utils.Wrap(err, "merge "+env+" config")
			}
		}
	}

	viper.SetEnvPrefix("BLOCKFREEZE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the BLOCKFREEZE_ENV environment
// variable to select the config-file overlay.
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault("BLOCKFREEZE_ENV", ""))
}
