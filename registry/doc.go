/*
Package registry builds the immutable handler registry used by the mediator.

Handlers are declared as Registrations through the generic helpers Request,
RequestVia, Notification and NotificationVia, grouped into Modules, and
collected by a Scanner. A Module becomes discoverable by loading it into the
process Catalog, usually from the init function of the package that defines
its handlers. Once built, a Registry is read-only and safe for concurrent use.
*/
package registry
