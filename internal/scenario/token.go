package scenario

// TokenType represents the type of a token in a scenario file
type TokenType string

const (
	// Special tokens
	TOKEN_EOF     TokenType = "EOF"
	TOKEN_ILLEGAL TokenType = "ILLEGAL"
	TOKEN_NEWLINE TokenType = "NEWLINE"

	// Literals
	TOKEN_STRING     TokenType = "STRING"
	TOKEN_NUMBER     TokenType = "NUMBER"
	TOKEN_DURATION   TokenType = "DURATION"
	TOKEN_IDENTIFIER TokenType = "IDENTIFIER"

	// Commands - Setup
	TOKEN_MONITOR         TokenType = "Monitor"
	TOKEN_WORKSPACE       TokenType = "Workspace"
	TOKEN_LAYOUT          TokenType = "Layout"
	TOKEN_FLOATING_LAYOUT TokenType = "FloatingLayout"

	// Commands - Windows
	TOKEN_OPEN          TokenType = "Open"
	TOKEN_OPEN_FLOATING TokenType = "OpenFloating"
	TOKEN_CLOSE         TokenType = "Close"
	TOKEN_FOCUS         TokenType = "Focus"
	TOKEN_CURSOR        TokenType = "Cursor"
	TOKEN_GROUP         TokenType = "Group"

	// Commands - Placement
	TOKEN_FLOAT      TokenType = "Float"
	TOKEN_FULLSCREEN TokenType = "Fullscreen"
	TOKEN_PSEUDO     TokenType = "Pseudo"
	TOKEN_MOVE_TO_WS TokenType = "MoveToWorkspace"
	TOKEN_MOVE       TokenType = "Move"
	TOKEN_SWAP       TokenType = "Swap"
	TOKEN_RESIZE     TokenType = "Resize"
	TOKEN_LAYOUT_MSG TokenType = "LayoutMsg"

	// Commands - Pointer
	TOKEN_DRAG_MOVE   TokenType = "DragMove"
	TOKEN_DRAG_RESIZE TokenType = "DragResize"
	TOKEN_DRAG_TO     TokenType = "DragTo"
	TOKEN_DRAG_END    TokenType = "DragEnd"

	// Commands - Time and output
	TOKEN_SLEEP TokenType = "Sleep"
	TOKEN_PRINT TokenType = "Print"

	// Commands - Assertions
	TOKEN_EXPECT         TokenType = "Expect"
	TOKEN_EXPECT_HIDDEN  TokenType = "ExpectHidden"
	TOKEN_EXPECT_FOCUSED TokenType = "ExpectFocused"
)

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// IsCommand returns true if the token type is a command
func (tt TokenType) IsCommand() bool {
	_, ok := commandTokens[tt]
	return ok
}

// KeywordTokenMap maps string keywords to token types
var KeywordTokenMap = map[string]TokenType{
	"Monitor":        TOKEN_MONITOR,
	"Workspace":      TOKEN_WORKSPACE,
	"Layout":         TOKEN_LAYOUT,
	"FloatingLayout": TOKEN_FLOATING_LAYOUT,

	"Open":         TOKEN_OPEN,
	"OpenFloating": TOKEN_OPEN_FLOATING,
	"Close":        TOKEN_CLOSE,
	"Focus":        TOKEN_FOCUS,
	"Cursor":       TOKEN_CURSOR,
	"Group":        TOKEN_GROUP,

	"Float":           TOKEN_FLOAT,
	"Fullscreen":      TOKEN_FULLSCREEN,
	"Pseudo":          TOKEN_PSEUDO,
	"MoveToWorkspace": TOKEN_MOVE_TO_WS,
	"Move":            TOKEN_MOVE,
	"Swap":            TOKEN_SWAP,
	"Resize":          TOKEN_RESIZE,
	"LayoutMsg":       TOKEN_LAYOUT_MSG,

	"DragMove":   TOKEN_DRAG_MOVE,
	"DragResize": TOKEN_DRAG_RESIZE,
	"DragTo":     TOKEN_DRAG_TO,
	"DragEnd":    TOKEN_DRAG_END,

	"Sleep": TOKEN_SLEEP,
	"Print": TOKEN_PRINT,

	"Expect":        TOKEN_EXPECT,
	"ExpectHidden":  TOKEN_EXPECT_HIDDEN,
	"ExpectFocused": TOKEN_EXPECT_FOCUSED,
}

var commandTokens = func() map[TokenType]struct{} {
	m := make(map[TokenType]struct{}, len(KeywordTokenMap))
	for _, tt := range KeywordTokenMap {
		m[tt] = struct{}{}
	}
	return m
}()

// LookupKeyword returns the token type for a keyword, or IDENTIFIER
func LookupKeyword(word string) TokenType {
	if tt, ok := KeywordTokenMap[word]; ok {
		return tt
	}
	return TOKEN_IDENTIFIER
}
