package msgframe

import "go.uber.org/zap"

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithAssemblerLogger enables debug tracing on the assembler. The default is
// a nop logger; the engine never logs unless asked to.
func WithAssemblerLogger(l *zap.Logger) AssemblerOption {
	return func(a *Assembler) {
		if l != nil {
			a.log = l
		}
	}
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithParserLogger enables debug tracing on the parser.
func WithParserLogger(l *zap.Logger) ParserOption {
	return func(p *Parser) {
		if l != nil {
			p.log = l
		}
	}
}
