// Package loc implements provenance tracking for the Prism IR.
//
// Every IR construct carries a location value describing where it came
// from: a source position, a name attached by a pass, one link of an
// inlining chain, a fused set of origins, or an opaque reference to an
// external data structure. Location values are immutable and interned:
// a Context owns a hash-consing table, and structurally equal content
// always resolves to the same canonical handle within that Context.
//
// Handles (Loc) are cheap value types carrying their owning Context.
// Composite builders verify that every child handle belongs to the
// target Context and fail with ErrContextMismatch otherwise; two
// Contexts never share interned values, even for identical content.
//
// Interning is safe for concurrent use. All values live until the
// Context is closed; nothing is freed per-instance.
package loc
