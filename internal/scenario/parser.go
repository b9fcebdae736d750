package scenario

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	tserrors "github.com/Gaurav-Gosain/tessera/internal/errors"
)

type argKind int

const (
	argName     argKind = iota // window or monitor name: identifier or string
	argWord                    // bare identifier
	argNumber                  // number
	argString                  // quoted string
	argDuration                // duration
)

func (k argKind) String() string {
	switch k {
	case argName:
		return "a name"
	case argWord:
		return "a word"
	case argNumber:
		return "a number"
	case argString:
		return "a quoted string"
	case argDuration:
		return "a duration"
	}
	return "?"
}

func (k argKind) accepts(tt TokenType) bool {
	switch k {
	case argName:
		return tt == TOKEN_IDENTIFIER || tt == TOKEN_STRING
	case argWord:
		return tt == TOKEN_IDENTIFIER
	case argNumber:
		return tt == TOKEN_NUMBER
	case argString:
		return tt == TOKEN_STRING
	case argDuration:
		return tt == TOKEN_DURATION
	}
	return false
}

// signature lists the required then optional positional arguments of a
// command.
type signature struct {
	required []argKind
	optional []argKind
	options  bool
}

var signatures = map[TokenType]signature{
	TOKEN_MONITOR:         {required: []argKind{argName, argNumber, argNumber, argNumber, argNumber}, optional: []argKind{argNumber}},
	TOKEN_WORKSPACE:       {required: []argKind{argNumber}},
	TOKEN_LAYOUT:          {required: []argKind{argWord}},
	TOKEN_FLOATING_LAYOUT: {required: []argKind{argWord}},

	TOKEN_OPEN:          {required: []argKind{argName}, options: true},
	TOKEN_OPEN_FLOATING: {required: []argKind{argName}, options: true},
	TOKEN_CLOSE:         {required: []argKind{argName}},
	TOKEN_FOCUS:         {required: []argKind{argName}},
	TOKEN_CURSOR:        {required: []argKind{argNumber, argNumber}},
	TOKEN_GROUP:         {required: []argKind{argName}},

	TOKEN_FLOAT:      {required: []argKind{argName}},
	TOKEN_FULLSCREEN: {required: []argKind{argName}, optional: []argKind{argWord}},
	TOKEN_PSEUDO:     {required: []argKind{argName}},
	TOKEN_MOVE_TO_WS: {required: []argKind{argName, argNumber}},
	TOKEN_MOVE:       {required: []argKind{argName, argWord}, optional: []argKind{argWord}},
	TOKEN_SWAP:       {required: []argKind{argName, argName}},
	TOKEN_RESIZE:     {required: []argKind{argName, argNumber, argNumber}, optional: []argKind{argWord}},
	TOKEN_LAYOUT_MSG: {required: []argKind{argString}},

	TOKEN_DRAG_MOVE:   {required: []argKind{argName, argNumber, argNumber}},
	TOKEN_DRAG_RESIZE: {required: []argKind{argName, argNumber, argNumber}, optional: []argKind{argWord}},
	TOKEN_DRAG_TO:     {required: []argKind{argNumber, argNumber}},
	TOKEN_DRAG_END:    {},

	TOKEN_SLEEP: {required: []argKind{argDuration}},
	TOKEN_PRINT: {},

	TOKEN_EXPECT:         {required: []argKind{argName, argNumber, argNumber, argNumber, argNumber}},
	TOKEN_EXPECT_HIDDEN:  {required: []argKind{argName}, optional: []argKind{argWord}},
	TOKEN_EXPECT_FOCUSED: {required: []argKind{argName}},
}

// openOptions are the keyword options of Open and OpenFloating and the
// number of values each takes.
var openOptions = map[string]struct {
	n    int
	kind argKind
}{
	"class": {1, argName},
	"title": {1, argName},
	"size":  {2, argNumber},
	"min":   {2, argNumber},
	"max":   {2, argNumber},
	"at":    {2, argNumber},
}

// Parser parses scenario files into commands
type Parser struct {
	lexer   *Lexer
	curTok  Token
	peekTok Token
	errors  []string
}

// NewParser creates a new parser from a lexer
func NewParser(l *Lexer) *Parser {
	p := &Parser{lexer: l}
	p.nextToken()
	p.nextToken()
	return p
}

// nextToken advances to the next token
func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	p.peekTok = p.lexer.NextToken()
}

// Parse parses the entire input and returns all commands
func (p *Parser) Parse() []Command {
	var commands []Command

	for p.curTok.Type != TOKEN_EOF {
		if p.curTok.Type == TOKEN_NEWLINE {
			p.nextToken()
			continue
		}

		cmd, ok := p.parseCommand()
		if !ok {
			p.skipToNextLine()
			continue
		}
		commands = append(commands, cmd)
	}

	return commands
}

// parseCommand parses a single command line
func (p *Parser) parseCommand() (Command, bool) {
	tok := p.curTok
	sig, ok := signatures[tok.Type]
	if !ok {
		p.addError(fmt.Sprintf("unexpected %s %q", strings.ToLower(string(tok.Type)), tok.Literal))
		return Command{}, false
	}

	cmd := Command{
		Type:   CommandType(tok.Type),
		Line:   tok.Line,
		Column: tok.Column,
	}
	p.nextToken() // consume the command keyword

	for _, kind := range sig.required {
		if !kind.accepts(p.curTok.Type) {
			p.addError(fmt.Sprintf("%s expects %s, got %s", cmd.Type, kind, p.describe()))
			return cmd, false
		}
		cmd.Args = append(cmd.Args, p.curTok.Literal)
		p.nextToken()
	}
	for _, kind := range sig.optional {
		if !kind.accepts(p.curTok.Type) {
			break
		}
		cmd.Args = append(cmd.Args, p.curTok.Literal)
		p.nextToken()
	}
	if sig.options && !p.parseOptions(&cmd) {
		return cmd, false
	}

	if !p.atLineEnd() {
		p.addError(fmt.Sprintf("%s: unexpected %s", cmd.Type, p.describe()))
		return cmd, false
	}

	cmd.Raw = p.rawFor(cmd)
	return cmd, true
}

// parseOptions reads keyword options like "class kitty size 640 400"
func (p *Parser) parseOptions(cmd *Command) bool {
	for p.curTok.Type == TOKEN_IDENTIFIER {
		name := p.curTok.Literal
		spec, ok := openOptions[name]
		if !ok {
			p.addError(fmt.Sprintf("%s: unknown option %q", cmd.Type, name))
			return false
		}
		p.nextToken()

		vals := make([]string, 0, spec.n)
		for range spec.n {
			if !spec.kind.accepts(p.curTok.Type) {
				p.addError(fmt.Sprintf("%s: option %s expects %s, got %s", cmd.Type, name, spec.kind, p.describe()))
				return false
			}
			vals = append(vals, p.curTok.Literal)
			p.nextToken()
		}
		if cmd.Options == nil {
			cmd.Options = make(map[string][]string)
		}
		cmd.Options[name] = vals
	}
	return true
}

func (p *Parser) rawFor(cmd Command) string {
	parts := []string{string(cmd.Type)}
	for _, a := range cmd.Args {
		if strings.ContainsAny(a, " \t") || a == "" {
			a = fmt.Sprintf("%q", a)
		}
		parts = append(parts, a)
	}
	for _, name := range []string{"class", "title", "size", "min", "max", "at"} {
		if vals, ok := cmd.Options[name]; ok {
			parts = append(parts, name)
			parts = append(parts, vals...)
		}
	}
	return strings.Join(parts, " ")
}

func (p *Parser) describe() string {
	switch p.curTok.Type {
	case TOKEN_EOF:
		return "end of input"
	case TOKEN_NEWLINE:
		return "end of line"
	}
	return fmt.Sprintf("%q", p.curTok.Literal)
}

func (p *Parser) atLineEnd() bool {
	return p.curTok.Type == TOKEN_NEWLINE || p.curTok.Type == TOKEN_EOF
}

// skipToNextLine skips tokens until the next newline
func (p *Parser) skipToNextLine() {
	for !p.atLineEnd() {
		p.nextToken()
	}
}

// addError adds an error to the parser's error list
func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, fmt.Sprintf("line %d: %s", p.curTok.Line, msg))
}

// Errors returns the list of parser errors
func (p *Parser) Errors() []string {
	return p.errors
}

// Parse parses a scenario from a string. All syntax errors are reported
// together as one INVALID_COMMAND error.
func Parse(content string) ([]Command, error) {
	p := NewParser(NewLexer(content))
	commands := p.Parse()

	var errs error
	for _, msg := range p.Errors() {
		errs = multierr.Append(errs, fmt.Errorf("%s", msg))
	}
	if errs != nil {
		return commands, tserrors.Wrap(tserrors.ErrCodeInvalidCommand, errs, "parse scenario")
	}
	return commands, nil
}
