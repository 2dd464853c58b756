package css

import (
	"io"
	"regexp"
	"strings"

	"github.com/tdewolff/parse/v2"
	tdcss "github.com/tdewolff/parse/v2/css"
)

var importantRe = regexp.MustCompile(`(?i)\s*!\s*important\s*$`)

type token struct {
	tt   tdcss.TokenType
	text string
	pos  Position
}

type parser struct {
	file   string
	src    string
	tokens []token
	i      int
}

// Parse reads a stylesheet into a Root node. file is only used for error
// messages and node source information.
func Parse(src, file string) (*Node, error) {
	p := &parser{file: file, src: src}
	if err := p.lex(); err != nil {
		return nil, err
	}
	root := NewRoot()
	if err := p.parseNodes(root, true, Position{}); err != nil {
		return nil, err
	}
	return root, nil
}

// ParseDecls parses a declaration list such as "color: red; margin: 0"
// into detached declaration nodes.
func ParseDecls(src string) ([]*Node, error) {
	root, err := Parse("a{"+src+"}", "")
	if err != nil {
		return nil, err
	}
	if len(root.Nodes) != 1 {
		return nil, &SyntaxError{Line: 1, Column: 1, Reason: "Unknown word", Source: src}
	}
	return root.Nodes[0].RemoveAll(), nil
}

func (p *parser) lex() error {
	lexer := tdcss.NewLexer(parse.NewInputString(p.src))
	line, col := 1, 1
	for {
		tt, data := lexer.Next()
		if tt == tdcss.ErrorToken {
			if err := lexer.Err(); err != nil && err != io.EOF {
				return p.errorAt(Position{Line: line, Column: col}, err.Error())
			}
			p.tokens = append(p.tokens, token{tt: tdcss.ErrorToken, pos: Position{Line: line, Column: col}})
			return nil
		}
		text := string(data)
		pos := Position{Line: line, Column: col}
		switch tt {
		case tdcss.BadStringToken:
			return p.errorAt(pos, "Unclosed string")
		case tdcss.BadURLToken:
			return p.errorAt(pos, "Unclosed url")
		case tdcss.CommentToken:
			if !strings.HasSuffix(text, "*/") || len(text) < 4 {
				return p.errorAt(pos, "Unclosed comment")
			}
		}
		p.tokens = append(p.tokens, token{tt: tt, text: text, pos: pos})

		for _, r := range text {
			if r == '\n' {
				line++
				col = 1
			} else {
				col++
			}
		}
	}
}

func (p *parser) errorAt(pos Position, reason string) error {
	return &SyntaxError{
		File:   p.file,
		Line:   pos.Line,
		Column: pos.Column,
		Reason: reason,
		Source: p.src,
	}
}

func (p *parser) peek() token { return p.tokens[p.i] }

func (p *parser) next() token {
	t := p.tokens[p.i]
	if t.tt != tdcss.ErrorToken {
		p.i++
	}
	return t
}

func (p *parser) source(pos Position) *Source {
	return &Source{File: p.file, Start: pos}
}

// parseNodes reads statements into parent until the closing brace of the
// current block (or EOF at the top level).
func (p *parser) parseNodes(parent *Node, top bool, open Position) error {
	for {
		t := p.peek()
		switch t.tt {
		case tdcss.ErrorToken:
			if !top {
				return p.errorAt(open, "Unclosed block")
			}
			return nil
		case tdcss.WhitespaceToken, tdcss.CDOToken, tdcss.CDCToken, tdcss.SemicolonToken:
			p.next()
		case tdcss.CommentToken:
			p.next()
			c := NewComment(t.text[2 : len(t.text)-2])
			c.Source = p.source(t.pos)
			parent.Append(c)
		case tdcss.RightBraceToken:
			if top {
				return p.errorAt(t.pos, "Unexpected }")
			}
			p.next()
			return nil
		case tdcss.AtKeywordToken:
			if err := p.parseAtRule(parent); err != nil {
				return err
			}
		default:
			if err := p.parseStatement(parent, top); err != nil {
				return err
			}
		}
	}
}

// prelude collects text up to a top-level `;`, `{` or `}`. The terminator is
// left unconsumed.
func (p *parser) prelude() (string, token, error) {
	var b strings.Builder
	var stack []Position
	for {
		t := p.peek()
		switch t.tt {
		case tdcss.ErrorToken:
			if len(stack) > 0 {
				return "", t, p.errorAt(stack[len(stack)-1], "Unclosed bracket")
			}
			return b.String(), t, nil
		case tdcss.SemicolonToken, tdcss.LeftBraceToken, tdcss.RightBraceToken:
			if len(stack) == 0 {
				return b.String(), t, nil
			}
		case tdcss.LeftParenthesisToken, tdcss.LeftBracketToken, tdcss.FunctionToken:
			stack = append(stack, t.pos)
		case tdcss.RightParenthesisToken, tdcss.RightBracketToken:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case tdcss.CommentToken:
			p.next()
			continue
		case tdcss.WhitespaceToken:
			p.next()
			b.WriteByte(' ')
			continue
		}
		b.WriteString(p.next().text)
	}
}

func (p *parser) parseAtRule(parent *Node) error {
	start := p.next()
	params, term, err := p.prelude()
	if err != nil {
		return err
	}
	at := NewAtRule(strings.TrimPrefix(start.text, "@"), strings.TrimSpace(params))
	at.Source = p.source(start.pos)
	parent.Append(at)

	switch term.tt {
	case tdcss.LeftBraceToken:
		p.next()
		at.Block = true
		return p.parseNodes(at, false, term.pos)
	case tdcss.SemicolonToken:
		p.next()
	}
	return nil
}

func (p *parser) parseStatement(parent *Node, top bool) error {
	first := p.peek()
	text, term, err := p.prelude()
	if err != nil {
		return err
	}

	if term.tt == tdcss.LeftBraceToken {
		p.next()
		rule := NewRule(strings.TrimSpace(text))
		rule.Source = p.source(first.pos)
		parent.Append(rule)
		return p.parseNodes(rule, false, term.pos)
	}

	if top {
		return p.errorAt(first.pos, "Unknown word")
	}
	if term.tt == tdcss.SemicolonToken {
		p.next()
	}

	prop, value, ok := splitDecl(text)
	if !ok {
		return p.errorAt(first.pos, "Unknown word")
	}
	decl := NewDecl(prop, value)
	if loc := importantRe.FindStringIndex(value); loc != nil {
		decl.Value = strings.TrimSpace(value[:loc[0]])
		decl.Important = true
	}
	decl.Source = p.source(first.pos)
	parent.Append(decl)
	return nil
}

// splitDecl splits "prop: value" on the first colon outside brackets.
func splitDecl(text string) (string, string, bool) {
	depth := 0
	var quote byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		case c == ':' && depth == 0:
			prop := strings.TrimSpace(text[:i])
			if prop == "" || strings.ContainsAny(prop, " \t\n") {
				return "", "", false
			}
			return prop, strings.TrimSpace(text[i+1:]), true
		}
	}
	return "", "", false
}
