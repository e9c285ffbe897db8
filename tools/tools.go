//go:build tools
// +build tools

// Package tools documents development tool dependencies.
// These tools are run via `go run` or installed globally and are not tracked in go.mod.
package tools

// Development tools:
//
// mockgen - regenerates internal/mocks from the ports and apiclient interfaces
//   Run: go generate ./internal/mocks
//   Version: go.uber.org/mock v0.6.0 (matches go.mod)
//
// golangci-lint - static analysis
//   Install: go install github.com/golangci/golangci-lint/v2/cmd/golangci-lint@latest
