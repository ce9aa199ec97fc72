// Package notifications delivers job results via ntfy.
//
// NewService publishes to the topic URL configured under [notifications] and
// degrades to a no-op when no topic is set. The job runner reports every
// finished import or refresh through the Service interface.
package notifications
