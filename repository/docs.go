// Package repository offers a generic in memory repository.
//
// Context specific repositories embed MemoryRepository and add the query methods their domain needs.
// The primary use case is testing and running the application without a database.
// Sometimes it is handy to keep the data between restarts, so it is possible to use a Store to do so.
// This is NOT intended for production use, use the postgres repositories instead.
package repository
