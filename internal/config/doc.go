// Package config provides configuration loading, merging, and validation
// facilities for the cardkeep client.
//
// Configuration is assembled from multiple sources in the following
// priority order (later sources fill only fields still unset):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//  4. Built-in defaults
//
// The main entry point is [GetClientConfig], which returns the validated
// client view of the merged configuration.
package config
