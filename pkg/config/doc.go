// Package config provides configuration management for the Shimmer tools.
//
// Configuration is read from YAML with environment variable overrides. Every
// field has a default, so the command line tools and the server run with no
// configuration file at all.
//
// # Configuration Loading
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("shimmer.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("shimmer.yaml")
//
//  3. From a YAML file if it exists, defaults otherwise:
//     cfg, err := config.LoadOrDefault(path)
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention SHIMMER_SECTION_FIELD:
//
//   - SHIMMER_GRAMMAR_VERSION overrides grammar.version
//   - SHIMMER_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - SHIMMER_AUDIT_SQLITE_DRIVER overrides audit.sqlite.driver
//
// # Configuration Precedence
//
//  1. Default values (defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Process Configuration and Reload
//
// Commands install the configuration they loaded with SetConfig. A long-running
// command reloads it with ReloadConfig, passing its flag overrides so they
// keep outranking the file:
//
//	cfg, err := config.ReloadConfig(path, applyFlags)
//
// A reload that fails to load or validate leaves the previous configuration
// in place.
//
// Because the file is decoded on top of the defaults, a boolean written as
// false in YAML stays false.
package config
