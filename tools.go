//go:build tools
// +build tools

// Package tools pins the Go tools this module invokes through
// `go generate` (mockgen) so they are versioned in go.mod like any
// other dependency and behave the same on every checkout.
package blog_lab

import (
	_ "go.uber.org/mock/mockgen"
)
