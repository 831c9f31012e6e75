// Package types defines the memory classes, symbolic addresses, transfer
// headers, command outcomes, collaborator interfaces, and standard errors
// for the memory manager.
//
// The manager itself lives in internal/manager; everything a collaborator
// (platform, symbol store, notice sink, telemetry collector) needs to
// implement is declared here so that those collaborators do not depend on
// the manager.
package types
