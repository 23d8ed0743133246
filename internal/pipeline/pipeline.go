// Package pipeline sequences the passes: lexer, parser, the two lowerings,
// the type-checker and the machine. It is the driver of the whole system.
package pipeline

import (
	"bytes"

	"github.com/pijama-lang/pijama/internal/ast"
	"github.com/pijama-lang/pijama/internal/config"
	"github.com/pijama-lang/pijama/internal/diagnostics"
	"github.com/pijama-lang/pijama/internal/lir"
	"github.com/pijama-lang/pijama/internal/mir"
	"github.com/pijama-lang/pijama/internal/token"
	"github.com/pijama-lang/pijama/internal/types"
)

// Context holds all the data passed between pipeline stages.
type Context struct {
	Source  string
	File    string
	Options config.Options

	Tokens []token.Token
	Block  ast.Block
	Mir    mir.Term
	Type   types.Type
	Lir    lir.Term

	// Output collects everything the program printed.
	Output bytes.Buffer

	// Err is the first error produced by any stage; once set, later stages
	// do not run.
	Err *diagnostics.Error
}

// NewContext creates a context for one source program.
func NewContext(source string, opts config.Options) *Context {
	return &Context{Source: source, Options: opts}
}

// Processor is any component that can process a Context and return a
// modified context.
type Processor interface {
	Process(ctx *Context) *Context
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline, stopping at the first stage that errors.
func (p *Pipeline) Run(ctx *Context) *Context {
	for _, processor := range p.processors {
		if ctx.Err != nil {
			break
		}
		ctx = processor.Process(ctx)
	}
	if ctx.Err != nil && ctx.Err.File == "" {
		ctx.Err.File = ctx.File
	}
	return ctx
}
