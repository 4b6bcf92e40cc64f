// Package config handles loading and validating ledger-core configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// The database section carries the two pieces of configuration the
// persistence layer consumes: the filesystem path to the SQLite file and
// the constructor options used when the application builds a fresh
// interface of its own in test mode.
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Database.Path)
package config
