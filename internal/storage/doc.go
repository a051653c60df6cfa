// Package storage defines the storage domain configuration that the
// provisioning workflow fills in, the backend enumerations, the error
// taxonomy shared by every workflow component, and the pure validators for
// connection paths, portal addresses, ports and credentials.
package storage
