// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing business rules to remain
// independent of specific database technologies or persistence details.
//
// It also owns the storage-independent parts of listing: filter and sort
// parameters, and the pagination arithmetic derived from a total count.
package store
