package pipeline

import (
	"github.com/pijama-lang/pijama/internal/config"
	"github.com/pijama-lang/pijama/internal/diagnostics"
	"github.com/pijama-lang/pijama/internal/lexer"
	"github.com/pijama-lang/pijama/internal/lir"
	"github.com/pijama-lang/pijama/internal/machine"
	"github.com/pijama-lang/pijama/internal/mir"
	"github.com/pijama-lang/pijama/internal/parser"
	"github.com/pijama-lang/pijama/internal/typecheck"
)

// LexerProcessor tokenizes the source.
type LexerProcessor struct{}

func (LexerProcessor) Process(ctx *Context) *Context {
	ctx.Tokens, ctx.Err = lexer.Tokenize(ctx.Source)
	return ctx
}

// ParserProcessor parses the token stream into the top-level block.
type ParserProcessor struct{}

func (ParserProcessor) Process(ctx *Context) *Context {
	ctx.Block, ctx.Err = parser.Parse(ctx.Tokens)
	return ctx
}

// LowerProcessor lowers the block to the named term language.
type LowerProcessor struct{}

func (LowerProcessor) Process(ctx *Context) *Context {
	ctx.Mir, ctx.Err = mir.LowerBlock(ctx.Block)
	return ctx
}

// TypecheckProcessor infers the type of the lowered term.
type TypecheckProcessor struct{}

func (TypecheckProcessor) Process(ctx *Context) *Context {
	ctx.Type, ctx.Err = typecheck.Check(ctx.Mir)
	return ctx
}

// NamelessProcessor removes names in favor of de Bruijn indices.
type NamelessProcessor struct{}

func (NamelessProcessor) Process(ctx *Context) *Context {
	ctx.Lir, ctx.Err = lir.Lower(ctx.Mir)
	return ctx
}

// MachineProcessor evaluates the nameless term, writing program output into
// the context.
type MachineProcessor struct{}

func (MachineProcessor) Process(ctx *Context) *Context {
	m := machine.New(&ctx.Output, ctx.Options.MaxSteps)
	_, ctx.Err = m.Run(ctx.Lir)
	return ctx
}

// Default returns the full pipeline, source to output.
func Default() *Pipeline {
	return New(
		LexerProcessor{},
		ParserProcessor{},
		LowerProcessor{},
		TypecheckProcessor{},
		NamelessProcessor{},
		MachineProcessor{},
	)
}

// Run drives a source program through the whole pipeline and returns what it
// printed. On failure it returns the first error, tagged with its phase.
func Run(source string, opts config.Options) (string, *diagnostics.Error) {
	ctx := Default().Run(NewContext(source, opts))
	if ctx.Err != nil {
		return "", ctx.Err
	}
	return ctx.Output.String(), nil
}
