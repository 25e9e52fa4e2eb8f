// Package ports defines interfaces between layers in the hexagonal
// architecture. Repository ports are implemented by the persistence adapter
// and called by the application layer. Service ports are implemented by the
// application layer and called by the thin API layer.
package ports
