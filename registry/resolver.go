package registry

import (
	"fmt"
	"reflect"

	cbus "github.com/next-trace/scg-mediator/contract/bus"
	merr "github.com/next-trace/scg-mediator/contract/errors"
)

// ResolveRequestHandler returns the registration handling requests of type
// msg answered with resp. A miss is reported as ErrHandlerNotFound.
func (r *Registry) ResolveRequestHandler(msg, resp reflect.Type) (Registration, error) {
	key := cbus.Key{Message: msg, Response: resp}

	reg, ok := r.requests[key]
	if !ok {
		return Registration{}, fmt.Errorf("resolve %s: %w", key, merr.ErrHandlerNotFound)
	}

	return reg, nil
}

// ResolveNotificationHandlers returns the registrations for notifications of
// type msg in registration order. No subscribers is not an error.
func (r *Registry) ResolveNotificationHandlers(msg reflect.Type) []Registration {
	regs := r.notifications[msg]
	if len(regs) == 0 {
		return nil
	}

	return append([]Registration(nil), regs...)
}
