// Package recurrence expands recurring-transaction schedules into concrete due dates.
//
// Everything here is pure: dates are immutable time.Time values at UTC midnight and
// every helper returns a new value, so schedules can be expanded concurrently.
package recurrence
