package repositories

import (
	"errors"
)

var (
	// ErrNotFound is returned when a specific record is not found.
	ErrNotFound = errors.New("requested record not found")

	// ErrStorageError is returned for unexpected backend or encoding failures.
	ErrStorageError = errors.New("storage error")

	// ErrDuplicateKey is returned when a record with the same id already exists.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrTxDone is returned by Tx methods after Commit or Rollback.
	ErrTxDone = errors.New("transaction has already been committed or rolled back")
)

// Executor is satisfied by *Store and *Tx.
// Repository reads accept either, so they see staged writes when called inside a transaction.
type Executor interface {
	// Get decodes the value stored under key into dest. found is false when the key is absent.
	Get(key string, dest interface{}) (found bool, err error)
}

// Writer is satisfied by *Tx. All repository writes go through a transaction.
type Writer interface {
	Executor
	Put(key string, value interface{}) error
	Delete(key string) error
}

// Persisted keys.
const (
	KeyInventory         = "inventory"
	KeySales             = "sales"
	KeyVendorSubmissions = "vendorSubmissions"
	KeyStockMovements    = "stockMovements"
	KeyTheme             = "theme"
	KeyBrandName         = "brandName"
	KeyOperatorPINHash   = "operatorPinHash"
)
