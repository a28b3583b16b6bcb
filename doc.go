// Package main provides the entry point of restopos, the backend of a
// restaurant point of sale. It serves a JSON REST API with fiber for employee
// accounts, roles, permissions and sessions, the product catalog, dining tables
// and orders. Data is stored with gorm on SQLite, MySQL or PostgreSQL.
//
// Usage:
//
//	restopos migrate --config ./etc/
//	restopos start --config ./etc/ [--dev]
//	restopos config dump [--json] [--show-secrets]
package main
