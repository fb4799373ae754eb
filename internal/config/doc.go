// Package config loads application settings from an optional .env file, an
// optional YAML file and environment variables (prefix USERS_, plus the
// conventional PORT, DATABASE_URL, DB_* and RATE_LIMIT_* names), applies
// defaults and validates the result before anything else starts.
package config
