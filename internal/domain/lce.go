package domain

import "fmt"

// Phase is the progress stage carried by an Lce envelope.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseContent
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseContent:
		return "content"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Lce wraps the packet of an asynchronous operation together with its phase:
// Loading carries nothing, Content and Error carry a packet.
// Build values with Loading, Content and Error; the zero value is Loading.
type Lce[T any] struct {
	phase  Phase
	packet T
}

// Loading returns an envelope signalling work in progress.
func Loading[T any]() Lce[T] {
	return Lce[T]{phase: PhaseLoading}
}

// Content returns an envelope carrying a successful packet.
func Content[T any](packet T) Lce[T] {
	return Lce[T]{phase: PhaseContent, packet: packet}
}

// Error returns an envelope carrying a failed packet.
func Error[T any](packet T) Lce[T] {
	return Lce[T]{phase: PhaseError, packet: packet}
}

// Phase returns the stage of the envelope.
func (l Lce[T]) Phase() Phase {
	return l.phase
}

// Packet returns the carried value; it is the zero value for Loading.
func (l Lce[T]) Packet() T {
	return l.packet
}

func (l Lce[T]) String() string {
	switch l.phase {
	case PhaseContent:
		return fmt.Sprintf("Lce.Content(%+v)", l.packet)
	case PhaseError:
		return fmt.Sprintf("Lce.Error(%+v)", l.packet)
	default:
		return "Lce.Loading"
	}
}

// ResultLce is the envelope flowing from use cases to the reducer.
type ResultLce = Lce[Result]
