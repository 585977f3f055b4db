// Package config loads keyhunt configuration from local and global YAML files
// with precedence rules. It is internal; CLI code maps flags, environment and
// files into engine, search and ledger settings.
package config
