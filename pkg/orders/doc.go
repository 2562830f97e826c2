// Package orders defines the order document model and the document-store
// contract used by back-office jobs.
//
// An Order owns a map of date-keyed DailyStatus payloads. Keys use the
// YYYY-MM-DD layout, so plain string comparison orders them by date:
//
//	if key >= cutoff {
//	    // keep
//	}
//
// # Storage
//
// Store abstracts the orders collection. Besides single-document reads and
// writes it offers atomic batches of at most MaxBatchSize mutations:
//
//	batch := store.NewBatch()
//	for _, m := range mutations {
//	    if err := batch.Update(m); err != nil {
//	        return err
//	    }
//	}
//	if err := batch.Commit(ctx); err != nil {
//	    return err
//	}
//
// Backends live in the storage subpackage.
package orders
