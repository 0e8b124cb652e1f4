package waitlist

import (
	"context"
	"fmt"
)

// Capacity is an event's seat count as its owner reports it.
type Capacity struct {
	IsFull  bool `json:"is_full"`
	Current int  `json:"current"`
	Max     int  `json:"max"`
}

// CapacityProvider reports how full an event is. Tournament and league
// management own the numbers.
type CapacityProvider interface {
	IsFull(ctx context.Context, eventType EventType, eventID uint) (Capacity, error)
}

// CapacityFunc adapts a plain function to CapacityProvider.
type CapacityFunc func(ctx context.Context, eventType EventType, eventID uint) (Capacity, error)

func (f CapacityFunc) IsFull(ctx context.Context, eventType EventType, eventID uint) (Capacity, error) {
	return f(ctx, eventType, eventID)
}

// Registrar finalizes an event registration. Repositories hand out a
// Registrar bound to their transaction so the registration commits or rolls
// back with the waitlist transition.
type Registrar interface {
	Finalize(ctx context.Context, userID uint, eventType EventType, eventID uint, eventSubID *uint) error
}

// RegistrationCounter counts finalized registrations for an event.
type RegistrationCounter interface {
	CountRegistrations(ctx context.Context, eventType EventType, eventID uint) (int64, error)
}

// ScopedCapacity is implemented by providers that can count seats inside
// the caller's transaction.
type ScopedCapacity interface {
	Within(counter RegistrationCounter) CapacityProvider
}

// StaticCapacity takes each event's size from configuration and its
// current count from the registrations table. A nil Counter counts zero.
type StaticCapacity struct {
	Default int
	Limits  map[string]int
	Counter RegistrationCounter
}

// LimitKey is the Limits key for an event.
func LimitKey(eventType EventType, eventID uint) string {
	return fmt.Sprintf("%s:%d", eventType, eventID)
}

func (s *StaticCapacity) IsFull(ctx context.Context, eventType EventType, eventID uint) (Capacity, error) {
	max := s.Default
	if n, ok := s.Limits[LimitKey(eventType, eventID)]; ok {
		max = n
	}
	var current int
	if s.Counter != nil {
		n, err := s.Counter.CountRegistrations(ctx, eventType, eventID)
		if err != nil {
			return Capacity{}, err
		}
		current = int(n)
	}
	return Capacity{IsFull: current >= max, Current: current, Max: max}, nil
}

// Within returns a copy that counts through counter.
func (s *StaticCapacity) Within(counter RegistrationCounter) CapacityProvider {
	scoped := *s
	scoped.Counter = counter
	return &scoped
}
