package lexer

import (
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/stratacss/strata/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
		l.ch = r
		l.position = l.readPosition
		l.readPosition += w
		l.column++
		return
	}

	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	l.skipWhitespace()

	switch l.ch {
	case '{':
		tok = newToken(token.LBRACE, l.ch, l.line, l.column)
	case '}':
		tok = newToken(token.RBRACE, l.ch, l.line, l.column)
	case '(':
		tok = newToken(token.LPAREN, l.ch, l.line, l.column)
	case ')':
		tok = newToken(token.RPAREN, l.ch, l.line, l.column)
	case '[':
		tok = newToken(token.LBRACKET, l.ch, l.line, l.column)
	case ']':
		tok = newToken(token.RBRACKET, l.ch, l.line, l.column)
	case ':':
		tok = newToken(token.COLON, l.ch, l.line, l.column)
	case ';':
		tok = newToken(token.SEMICOLON, l.ch, l.line, l.column)
	case ',':
		tok = newToken(token.COMMA, l.ch, l.line, l.column)
	case '&':
		tok = newToken(token.AMPERSAND, l.ch, l.line, l.column)
	case '~':
		tok = newToken(token.TILDE, l.ch, l.line, l.column)
	case '+':
		tok = newToken(token.PLUS, l.ch, l.line, l.column)
	case '*':
		tok = newToken(token.ASTERISK, l.ch, l.line, l.column)
	case '%':
		tok = newToken(token.PERCENT, l.ch, l.line, l.column)
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.EQ, Lexeme: "==", Literal: "==", Line: l.line, Column: l.column - 1}
		} else {
			tok = newToken(token.ASSIGN, l.ch, l.line, l.column)
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.NOT_EQ, Lexeme: "!=", Literal: "!=", Line: l.line, Column: l.column - 1}
		} else {
			tok = newToken(token.BANG, l.ch, l.line, l.column)
		}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.LTE, Lexeme: "<=", Literal: "<=", Line: l.line, Column: l.column - 1}
		} else {
			tok = newToken(token.LT, l.ch, l.line, l.column)
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.GTE, Lexeme: ">=", Literal: ">=", Line: l.line, Column: l.column - 1}
		} else {
			tok = newToken(token.GT, l.ch, l.line, l.column)
		}
	case '/':
		if l.peekChar() == '*' {
			return l.readBlockComment()
		}
		tok = newToken(token.SLASH, l.ch, l.line, l.column)
	case '.':
		if isDigit(l.peekChar()) {
			return l.readNumber()
		}
		tok = newToken(token.DOT, l.ch, l.line, l.column)
	case '-':
		if isIdentStart(l.peekChar()) {
			return l.readIdentifierToken()
		}
		tok = newToken(token.MINUS, l.ch, l.line, l.column)
	case '$':
		if isIdentStart(l.peekChar()) {
			startLine, startCol := l.line, l.column
			l.readChar()
			name := l.readIdentifier()
			return token.Token{Type: token.VARIABLE, Lexeme: "$" + name, Literal: name, Line: startLine, Column: startCol}
		}
		tok = newToken(token.ILLEGAL, l.ch, l.line, l.column)
	case '@':
		if isIdentStart(l.peekChar()) {
			startLine, startCol := l.line, l.column
			l.readChar()
			name := l.readIdentifier()
			return token.Token{Type: token.LookupAtKeyword(name), Lexeme: "@" + name, Literal: name, Line: startLine, Column: startCol}
		}
		tok = newToken(token.ILLEGAL, l.ch, l.line, l.column)
	case '#':
		if l.peekChar() == '{' {
			startLine, startCol := l.line, l.column
			l.readChar()
			tok = token.Token{Type: token.INTERP_START, Lexeme: "#{", Literal: "#{", Line: startLine, Column: startCol}
		} else if isIdentChar(l.peekChar()) {
			startLine, startCol := l.line, l.column
			l.readChar()
			name := l.readIdentifier()
			return token.Token{Type: token.HASH, Lexeme: "#" + name, Literal: name, Line: startLine, Column: startCol}
		} else {
			tok = newToken(token.ILLEGAL, l.ch, l.line, l.column)
		}
	case '"', '\'':
		return l.readString(l.ch)
	case '`':
		return l.readScript()
	case 0:
		tok.Lexeme = ""
		tok.Type = token.EOF
		tok.Line = l.line
		tok.Column = l.column
	default:
		if isIdentStart(l.ch) {
			return l.readIdentifierToken()
		} else if isDigit(l.ch) {
			return l.readNumber()
		}
		tok = newToken(token.ILLEGAL, l.ch, l.line, l.column)
	}

	l.readChar()
	return tok
}

func (l *Lexer) readIdentifierToken() token.Token {
	startLine, startCol := l.line, l.column
	lexeme := l.readIdentifier()
	return token.Token{Type: token.LookupIdent(lexeme), Lexeme: lexeme, Literal: lexeme, Line: startLine, Column: startCol}
}

// readIdentifier reads a CSS identifier. Hyphens continue the identifier
// only when followed by another identifier character, so "$a-$b" splits
// into a subtraction while "border-radius" stays whole.
func (l *Lexer) readIdentifier() string {
	position := l.position
	for {
		if isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
			l.readChar()
			continue
		}
		if l.ch == '-' && isIdentChar(l.peekChar()) {
			l.readChar()
			continue
		}
		break
	}
	return l.input[position:l.position]
}

// readNumber reads a numeric literal with an optional CSS unit. The unit
// stays in the lexeme; Literal carries the parsed float64.
func (l *Lexer) readNumber() token.Token {
	startLine, startCol := l.line, l.column
	position := l.position

	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	numeric := l.input[position:l.position]

	// Unit: letters (px, em, deg) or a single '%'.
	if l.ch == '%' {
		l.readChar()
	} else {
		for isLetter(l.ch) {
			l.readChar()
		}
	}
	lexeme := l.input[position:l.position]

	val, err := strconv.ParseFloat(numeric, 64)
	if err != nil {
		return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: "invalid number " + lexeme, Line: startLine, Column: startCol}
	}
	return token.Token{Type: token.NUMBER, Lexeme: lexeme, Literal: val, Line: startLine, Column: startCol}
}

// readString reads a quoted string. Strings do not span lines; an escaped
// quote, backslash, or '#' is taken literally.
func (l *Lexer) readString(quote rune) token.Token {
	startLine, startCol := l.line, l.column
	var sb []rune
	for {
		l.readChar()
		if l.ch == quote {
			break
		}
		if l.ch == 0 || l.ch == '\n' {
			return token.Token{Type: token.ILLEGAL, Lexeme: string(sb), Literal: "unterminated string", Line: startLine, Column: startCol}
		}
		if l.ch == '\\' {
			next := l.peekChar()
			if next == quote || next == '\\' || next == '#' {
				l.readChar()
			}
		}
		sb = append(sb, l.ch)
	}
	l.readChar() // consume closing quote
	content := string(sb)
	return token.Token{Type: token.STRING, Lexeme: string(quote) + content + string(quote), Literal: content, Line: startLine, Column: startCol}
}

// readScript reads a backtick-delimited inline script. No escape
// processing; content is taken as-is.
func (l *Lexer) readScript() token.Token {
	startLine, startCol := l.line, l.column
	position := l.position + 1
	for {
		l.readChar()
		if l.ch == '`' {
			break
		}
		if l.ch == 0 {
			return token.Token{Type: token.ILLEGAL, Lexeme: l.input[position:l.position], Literal: "unterminated script", Line: startLine, Column: startCol}
		}
	}
	source := l.input[position:l.position]
	l.readChar() // consume closing backtick
	return token.Token{Type: token.SCRIPT, Lexeme: "`" + source + "`", Literal: source, Line: startLine, Column: startCol}
}

// readBlockComment reads /* ... */ including the loud marker, returning a
// COMMENT token whose literal is the inner text.
func (l *Lexer) readBlockComment() token.Token {
	startLine, startCol := l.line, l.column
	l.readChar() // consume '/'
	position := l.readPosition
	for {
		l.readChar()
		if l.ch == 0 {
			return token.Token{Type: token.ILLEGAL, Lexeme: l.input[position:l.position], Literal: "unterminated comment", Line: startLine, Column: startCol}
		}
		if l.ch == '*' && l.peekChar() == '/' {
			break
		}
	}
	content := l.input[position:l.position]
	l.readChar() // consume '*'
	l.readChar() // consume '/'
	return token.Token{Type: token.COMMENT, Lexeme: "/*" + content + "*/", Literal: content, Line: startLine, Column: startCol}
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || (ch >= 0x80 && unicode.IsLetter(ch))
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isIdentStart(ch rune) bool {
	return isLetter(ch) || ch == '_' || ch == '-'
}

func isIdentChar(ch rune) bool {
	return isLetter(ch) || isDigit(ch) || ch == '_' || ch == '-'
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func newToken(tokenType token.TokenType, ch rune, line, col int) token.Token {
	literal := string(ch)
	return token.Token{Type: tokenType, Lexeme: literal, Literal: literal, Line: line, Column: col}
}

func (l *Lexer) skipWhitespace() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
			l.readChar()
		}
		// Line comments vanish here; block comments become tokens.
		if l.ch == '/' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		break
	}
}
