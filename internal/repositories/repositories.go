// package repositories provides the persistence layer: read-only library
// catalog queries and the durable play queue snapshot.
//
// LibraryRepository serves the catalog the queue engine resolves track and
// collection ids against. QueueRepository stores the queue aggregate as
// queue_items rows plus a singleton queue_state row (id = 1).
package repositories
