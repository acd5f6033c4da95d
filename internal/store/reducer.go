package store

import (
	"slices"

	"portfolio-hub/internal/domain"
)

// Op enumera las mutaciones que el reducer sabe aplicar.
type Op string

const (
	OpReset   Op = "reset"
	OpAdd     Op = "add"
	OpReplace Op = "replace"
	OpRemove  Op = "remove"
)

// Event es una mutación sobre la lista. Toda fuente de cambios (respuesta
// REST propia o evento push ajeno) se expresa como un Event y pasa por Apply,
// de modo que la unicidad por ID se garantiza en un solo lugar.
type Event[E domain.Entity] struct {
	Op     Op
	Entity E
	ID     string
	List   []E
}

// Apply es el reducer puro: (lista actual, evento) -> lista nueva.
// Invariante: después de aplicar cualquier evento la lista contiene a lo sumo
// una entidad por ID, y el orden de inserción se preserva.
//
//   - reset: reemplaza la lista completa, deduplicando por ID (gana la última).
//   - add: agrega al final; si el ID ya existe es un no-op (idempotente).
//   - replace: reemplaza la entrada con el mismo ID; si no existe, no inserta.
//   - remove: quita la entrada con ese ID; si no existe, no-op.
func Apply[E domain.Entity](list []E, ev Event[E]) []E {
	switch ev.Op {
	case OpReset:
		out := make([]E, 0, len(ev.List))
		index := make(map[string]int, len(ev.List))
		for _, e := range ev.List {
			if i, ok := index[e.EntityID()]; ok {
				out[i] = e
				continue
			}
			index[e.EntityID()] = len(out)
			out = append(out, e)
		}
		return out

	case OpAdd:
		id := ev.Entity.EntityID()
		for _, e := range list {
			if e.EntityID() == id {
				return list
			}
		}
		out := make([]E, 0, len(list)+1)
		out = append(out, list...)
		return append(out, ev.Entity)

	case OpReplace:
		id := ev.Entity.EntityID()
		for i, e := range list {
			if e.EntityID() == id {
				out := slices.Clone(list)
				out[i] = ev.Entity
				return out
			}
		}
		return list

	case OpRemove:
		for i, e := range list {
			if e.EntityID() == ev.ID {
				out := make([]E, 0, len(list)-1)
				out = append(out, list[:i]...)
				return append(out, list[i+1:]...)
			}
		}
		return list
	}
	return list
}
