package domain

import "reflect"

// Entity is implemented by every aggregate root.
type Entity interface {
	EntityID() string
}

// SameEntity reports identity equality: same concrete type and same id.
func SameEntity(a, b Entity) bool {
	if a == nil || b == nil {
		return false
	}
	return reflect.TypeOf(a) == reflect.TypeOf(b) && a.EntityID() == b.EntityID()
}
