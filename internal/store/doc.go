// Package store defines the persistence contracts for users and study
// sessions together with the errors every backend maps its driver errors to.
// The PostgreSQL and SQLite implementations live under internal/platform.
package store
