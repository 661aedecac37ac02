package parallax

import (
	"reflect"
)

// Queries iterate the archetypes holding all requested component types and
// hand out pointers into the component storage. The callback returns false
// to stop iteration early.
type Query1[A any] struct{ ecs *Ecs }
type Query2[A, B any] struct{ ecs *Ecs }
type Query3[A, B, C any] struct{ ecs *Ecs }

func MakeQuery1[A any](cmd *Commands) Query1[A] { return Query1[A]{ecs: cmd.app.ecs} }
func MakeQuery2[A, B any](cmd *Commands) Query2[A, B] {
	return Query2[A, B]{ecs: cmd.app.ecs}
}
func MakeQuery3[A, B, C any](cmd *Commands) Query3[A, B, C] {
	return Query3[A, B, C]{ecs: cmd.app.ecs}
}

func (q Query1[A]) Map(m func(EntityId, *A) bool) {
	idA := componentIdOf[A](q.ecs)

	for _, arch := range q.ecs.archetypes {
		dataA, ok := arch.componentData[idA]
		if !ok {
			continue
		}
		compsA := dataA.([]A)

		for entityId, r := range arch.entities {
			if !m(entityId, &compsA[r]) {
				return
			}
		}
	}
}

func (q Query2[A, B]) Map(m func(EntityId, *A, *B) bool) {
	idA := componentIdOf[A](q.ecs)
	idB := componentIdOf[B](q.ecs)

	for _, arch := range q.ecs.archetypes {
		dataA, ok := arch.componentData[idA]
		if !ok {
			continue
		}
		dataB, ok := arch.componentData[idB]
		if !ok {
			continue
		}
		compsA := dataA.([]A)
		compsB := dataB.([]B)

		for entityId, r := range arch.entities {
			if !m(entityId, &compsA[r], &compsB[r]) {
				return
			}
		}
	}
}

func (q Query3[A, B, C]) Map(m func(EntityId, *A, *B, *C) bool) {
	idA := componentIdOf[A](q.ecs)
	idB := componentIdOf[B](q.ecs)
	idC := componentIdOf[C](q.ecs)

	for _, arch := range q.ecs.archetypes {
		dataA, ok := arch.componentData[idA]
		if !ok {
			continue
		}
		dataB, ok := arch.componentData[idB]
		if !ok {
			continue
		}
		dataC, ok := arch.componentData[idC]
		if !ok {
			continue
		}
		compsA := dataA.([]A)
		compsB := dataB.([]B)
		compsC := dataC.([]C)

		for entityId, r := range arch.entities {
			if !m(entityId, &compsA[r], &compsB[r], &compsC[r]) {
				return
			}
		}
	}
}

func componentIdOf[T any](ecs *Ecs) componentId {
	var zero T
	return ecs.getComponentId(reflect.TypeOf(zero))
}
