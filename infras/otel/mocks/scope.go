package mocks

import "hostel/infras/otel"

// noopScope satisfies otel.Scope without recording anything.
type noopScope struct{}

func (noopScope) AddEvent(string)              {}
func (noopScope) End()                         {}
func (noopScope) SetAttribute(string, any)     {}
func (noopScope) SetAttributes(map[string]any) {}
func (noopScope) TraceError(error)             {}
func (noopScope) TraceIfError(*error)          {}

func NewScope() otel.Scope {
	return noopScope{}
}
