// Package config provides simple, local-first configuration management for
// Tally.
//
// All configuration lives in the working directory's .tally/ folder:
//
//	.tally/
//	├── config.json   # Main configuration
//	├── tally.db      # SQLite catalog database
//	├── tally.log     # Structured log output (the terminal belongs to the TUI)
//	└── .gitignore    # Keeps the database and logs out of git
//
// The config.json file contains flat key-value settings:
//
//	{
//	  "store_name": "Main Street Hardware",
//	  "currency": "USD",
//	  "database_path": ".tally/tally.db",
//	  "page_size": 20,
//	  "search_debounce_ms": 300,
//	  "mutation_timeout_ms": 30000,
//	  "theme": "slate",
//	  "metrics_addr": ""
//	}
//
// Values can reference environment variables with $VAR or ${VAR} syntax.
// Defaults work out of the box; a missing config file is created on first
// run.
package config
