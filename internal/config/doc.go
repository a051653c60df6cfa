// Package config loads the settings file of a provisioning run and writes
// the preseed file produced by a successful one.
//
// A settings file has four sections:
//
//	engine:   identity of the engine the domain is created for
//	ansible:  how the executor is invoked
//	storage:  preset storage domain parameters; any backend field set here
//	          makes the run unattended
//	answers:  scripted prompt answers keyed by question name
package config
