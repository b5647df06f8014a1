// Package console provides the writer-backed diagnostic stream used when no
// external sink is registered, and alongside one for forwarded errors.
package console
