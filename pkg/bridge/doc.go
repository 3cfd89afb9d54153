// Package bridge marshals values out of the hosted script runtime into
// native representations the engine can use, and carries native failures
// back into the runtime as hosted exceptions.
//
// Every extractor borrows hosted references for the duration of one call
// only. The single zero-copy exception is BorrowedBytes, whose lifetime
// contract is documented on the type. Extraction fails fast: the first
// failure at any depth aborts the whole extraction, and no partial value is
// ever returned alongside an error.
package bridge
