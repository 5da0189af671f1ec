package shortener

import (
	"fmt"
	"strings"

	"github.com/jaevor/go-nanoid"
)

// CodeGenerator generates random short codes.
type CodeGenerator func() string

// Generator composes random codes into full short URLs of the form
// <siteURL>:<port>/s/<code>.
type Generator struct {
	generateCode CodeGenerator
	prefix       string
}

// NewGenerator creates a generator backed by nanoid codes of the given length.
func NewGenerator(siteURL string, port, codeLength int) (*Generator, error) {
	gen, err := nanoid.Standard(codeLength)
	if err != nil {
		return nil, fmt.Errorf("create code generator: %w", err)
	}

	return NewGeneratorWithCodes(siteURL, port, gen), nil
}

// NewGeneratorWithCodes creates a generator using a custom code source.
func NewGeneratorWithCodes(siteURL string, port int, codes CodeGenerator) *Generator {
	return &Generator{
		generateCode: codes,
		prefix:       fmt.Sprintf("%s:%d/s/", strings.TrimSuffix(siteURL, "/"), port),
	}
}

// Generate returns a candidate short URL. Uniqueness is not checked.
func (g *Generator) Generate() string {
	return g.ShortURL(g.generateCode())
}

// ShortURL builds the full short URL for code.
func (g *Generator) ShortURL(code string) string {
	return g.prefix + code
}

// Code extracts the code portion of a short URL built by this generator.
func (g *Generator) Code(shortURL string) (string, bool) {
	return strings.CutPrefix(shortURL, g.prefix)
}

// Prefix returns the part of every short URL that precedes the code.
func (g *Generator) Prefix() string {
	return g.prefix
}
