// Package storage provides the order store backends.
//
//   - MemoryStore: in-process maps, with failure injection for tests.
//   - SQLiteStore: one JSON document per row, through mattn/go-sqlite3
//     (driver "sqlite3", cgo) or modernc.org/sqlite (driver "sqlite").
//   - PostgresStore: a jsonb column through gorm.
//
// Batched field updates patch only dailyStatuses, updatedAt and the audit
// timestamp of the stored document; every other field keeps its stored
// value. A batch commits in one transaction.
//
// Open picks the backend from configuration:
//
//	store, err := storage.Open(cfg.Storage)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
package storage
