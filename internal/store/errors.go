package store

import "codeberg.org/mutker/cukraszda/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig     = errors.ErrInvalidConfig
	ErrInvalidDBPath     = errors.ErrorCode("store_invalid_db_path")
	ErrInvalidCollection = errors.ErrorCode("store_invalid_collection")

	// Schema Errors
	ErrSchemaInitFailed       = errors.ErrorCode("store_schema_init_failed")
	ErrSchemaValidationFailed = errors.ErrorCode("store_schema_validation_failed")
	ErrSchemaMigrationFailed  = errors.ErrorCode("store_schema_migration_failed")

	// Storage Errors
	ErrStorageInit   = errors.ErrorCode("store_init_failed")
	ErrStorageAccess = errors.ErrorCode("store_access_failed")
	ErrStorageClose  = errors.ErrorCode("store_close_failed")

	// Document Errors
	ErrInsertFailed    = errors.ErrorCode("store_insert_failed")
	ErrInvalidDocument = errors.ErrorCode("store_invalid_document")
)
