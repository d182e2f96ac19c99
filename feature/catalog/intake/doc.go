// Package intake is the boundary between raw vision output and the typed catalog.
//
// Every batch entry is parsed exactly once into a Record tagged as an item, a craft
// or a malformed entry. Code past this package never inspects loosely typed values.
package intake
