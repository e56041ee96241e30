// Package requestlog records the requests served by mock endpoints so they
// can be inspected later from the admin API or the CLI.
//
// This is distinct from operational logging (log/slog), which records what
// the server itself is doing. Only requests that matched an endpoint are
// recorded; misses leave no trace here.
//
// # Retention
//
// MemoryStore is a bounded buffer. Once it holds its capacity (1000 entries by
// default) every Append evicts the oldest entry. Reads are always newest
// first. Entries are never modified after they are stored.
//
//	store := requestlog.NewMemoryStore(requestlog.DefaultCapacity)
//	store.Append(requestlog.Entry{
//	    EndpointID:     def.ID,
//	    Method:         "GET",
//	    Path:           "/users",
//	    ResponseStatus: 200,
//	})
//	recent := store.List(requestlog.DefaultListLimit)
//
// This is a leaf package with no internal dependencies beyond id generation.
package requestlog
