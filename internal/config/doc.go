// Package config loads, normalizes, and validates lathe's TOML configuration.
//
// Load resolves the config file (explicit path or the default under
// ~/.config/lathe), decodes it over the repository defaults, expands tilde
// paths, and validates every section before returning. A missing file is not
// an error; defaults apply.
package config
