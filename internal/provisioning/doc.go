// Package provisioning drives the creation of the shared storage domain.
//
// A Machine resolves the backend type, hands the working configuration to
// the backend's Collector, asks the executor to create the domain and reads
// the result back. It loops until the domain is active:
//
//	collecting -> creating -> active
//	     ^            |
//	     +-- retry <--+--> fatal
//
// Interactive runs retry on recoverable errors. Runs that start with any
// backend field preset are unattended and stop at the first error.
package provisioning
