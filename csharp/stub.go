//go:build !cgo

package csharp

import (
	"context"

	"github.com/teranos/gaspar/decl"
	"github.com/teranos/gaspar/errors"
)

// ErrNoCGO is returned when C# parsing is unavailable due to missing CGO.
var ErrNoCGO = errors.WithHint(
	errors.New("C# parsing requires CGO (tree-sitter)"),
	"rebuild gaspar with CGO_ENABLED=1")

// Parser is a stub for non-CGO builds.
type Parser struct{}

// NewParser returns a parser whose methods always fail with ErrNoCGO.
func NewParser() *Parser {
	return &Parser{}
}

// ParseFiles returns ErrNoCGO.
func (p *Parser) ParseFiles(ctx context.Context, root string, rel []string) ([]decl.File, error) {
	return nil, ErrNoCGO
}

// ParseFile returns ErrNoCGO.
func (p *Parser) ParseFile(ctx context.Context, path string, src []byte) (decl.File, error) {
	return decl.File{}, ErrNoCGO
}
