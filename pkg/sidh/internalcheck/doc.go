// Package internalcheck holds source-level policy tests for the sidh-go
// packages that handle key material.
//
// The tests load the packages with golang.org/x/tools/go/packages and walk
// their syntax trees. There is no exported API.
//
// # Internal Use Only
//
// Nothing here should be imported. Use pkg/sidh and its subpackages.
package internalcheck
