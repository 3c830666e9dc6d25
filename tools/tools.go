//go:build tools

// Package tools pins the code generators and the live-reload runner used in
// development so `go run` resolves them from go.mod.
package tools

import (
	_ "github.com/air-verse/air"
	_ "github.com/google/wire/cmd/wire"
	_ "github.com/swaggo/swag/cmd/swag"
	_ "go.uber.org/mock/mockgen"
)
