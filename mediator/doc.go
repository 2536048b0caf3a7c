/*
Package mediator dispatches requests and notifications to the handlers held in
a registry, obtaining handler instances from a container collaborator.
Send reaches exactly one handler; Publish reaches every subscriber in
registration order, one at a time, and stops at the first failure.
*/
package mediator
