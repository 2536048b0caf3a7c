package bus

// Request is a marker interface for requests. A concrete request type has
// exactly one handler per response type; the response type is chosen by the
// caller of Send.
type Request interface{}

// Notification is a marker interface for notifications. A concrete
// notification type may have zero or more handlers, invoked in registration order.
type Notification interface{}
