package filter

// TokenKind classifies a filter token.
type TokenKind uint8

const (
	TokenLeaf TokenKind = iota
	TokenAnd
	TokenOr
	TokenNot
	TokenOpen
	TokenClose
)

func (k TokenKind) String() string {
	switch k {
	case TokenLeaf:
		return "leaf"
	case TokenAnd:
		return "&"
	case TokenOr:
		return "|"
	case TokenNot:
		return "!"
	case TokenOpen:
		return "("
	case TokenClose:
		return ")"
	}
	return "?"
}

// Token is one lexical unit of a filter. Pos is the byte offset in the source.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int
}

func delimiter(c byte) (TokenKind, bool) {
	switch c {
	case '&':
		return TokenAnd, true
	case '|':
		return TokenOr, true
	case '!':
		return TokenNot, true
	case '(':
		return TokenOpen, true
	case ')':
		return TokenClose, true
	}
	return 0, false
}

// Tokenize splits src on the delimiters space, '(', ')', '&', '|' and '!'.
// Every maximal run of other bytes is a leaf.
func Tokenize(src string) []Token {
	var tokens []Token
	start := -1
	flush := func(end int) {
		if start >= 0 {
			tokens = append(tokens, Token{Kind: TokenLeaf, Text: src[start:end], Pos: start})
			start = -1
		}
	}
	for i := 0; i < len(src); i++ {
		c := src[i]
		if c == ' ' {
			flush(i)
			continue
		}
		if kind, ok := delimiter(c); ok {
			flush(i)
			tokens = append(tokens, Token{Kind: kind, Text: src[i : i+1], Pos: i})
			continue
		}
		if start < 0 {
			start = i
		}
	}
	flush(len(src))
	return tokens
}

// dropEmptyGroups removes every "()" pair, including nested ones such as
// "(())", since an empty group contributes nothing to the expression.
func dropEmptyGroups(tokens []Token) []Token {
	out := tokens[:0:0]
	for _, tok := range tokens {
		if tok.Kind == TokenClose && len(out) > 0 && out[len(out)-1].Kind == TokenOpen {
			out = out[:len(out)-1]
			continue
		}
		out = append(out, tok)
	}
	return out
}
