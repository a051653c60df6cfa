// Package executor runs provisioning operations through an external engine.
//
// The engine is ansible-playbook driven with a tag per operation. Extra
// variables are handed over in a YAML file and the engine's callback plugin
// writes a JSON document of named task results to the path exported in
// ResultFileEnv. Result shapes differ per tag and engine version; callers
// interpret them, this package only transports them.
package executor
