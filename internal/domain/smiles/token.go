// Package smiles turns SMILES line notation into a molecule.Graph. Tokenize
// splits the text into lexical symbols; Parse feeds those symbols to a graph
// builder that tracks the previous atom, the pending bond order, the branch
// stack and the table of open ring closures.
package smiles

import (
	"fmt"
	"strings"

	"github.com/turtacn/molsdg/internal/domain/molecule"
	"github.com/turtacn/molsdg/pkg/errors"
)

// TokenKind classifies a lexical symbol.
type TokenKind int

const (
	TokenAtom TokenKind = iota
	TokenBond
	TokenBranchOpen
	TokenBranchClose
	TokenRingClosure
	TokenDot
)

func (k TokenKind) String() string {
	switch k {
	case TokenAtom:
		return "atom"
	case TokenBond:
		return "bond"
	case TokenBranchOpen:
		return "branch-open"
	case TokenBranchClose:
		return "branch-close"
	case TokenRingClosure:
		return "ring-closure"
	case TokenDot:
		return "dot"
	default:
		return "unknown"
	}
}

// Token is one lexeme. Only the fields relevant to Kind are set.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int

	Atom    molecule.Atom // TokenAtom
	Order   float64       // TokenBond
	Closure int           // TokenRingClosure
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q@%d)", t.Kind, t.Text, t.Pos)
}

// organic is the subset of elements allowed outside brackets. Values are the
// canonical symbols; lower-case keys mark aromatic atoms.
var organic = map[string]string{
	"B": "B", "C": "C", "N": "N", "O": "O", "P": "P", "S": "S",
	"F": "F", "Cl": "Cl", "Br": "Br", "I": "I",
	"b": "B", "c": "C", "n": "N", "o": "O", "p": "P", "s": "S",
}

// readAhead lists the two-letter organic symbols and their first letter.
var readAhead = map[byte]byte{
	'C': 'l',
	'B': 'r',
}

// aromaticBracket lists lower-case symbols legal inside brackets.
var aromaticBracket = map[string]string{
	"b": "B", "c": "C", "n": "N", "o": "O", "p": "P", "s": "S",
	"se": "Se", "as": "As", "te": "Te",
}

var bondOrders = map[byte]float64{
	'-':  molecule.BondSingle,
	'=':  molecule.BondDouble,
	'#':  molecule.BondTriple,
	':':  molecule.BondAromatic,
	'/':  molecule.BondSingle,
	'\\': molecule.BondSingle,
}

// Tokenize splits s into tokens. Multi-character lexemes (Cl, Br, bracket
// atoms, %nn closures) become single tokens; Cl and Br are matched greedily
// by read-ahead outside brackets.
func Tokenize(s string) ([]Token, error) {
	var tokens []Token
	pos := 0
	for pos < len(s) {
		ch := s[pos]
		switch {
		case ch == '[':
			end := strings.IndexByte(s[pos:], ']')
			if end < 0 {
				return nil, malformed("unbalanced bracket", pos)
			}
			body := s[pos+1 : pos+end]
			if strings.IndexByte(body, '[') >= 0 {
				return nil, malformed("nested bracket", pos)
			}
			atom, err := parseBracket(body, pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, Token{Kind: TokenAtom, Text: s[pos : pos+end+1], Pos: pos, Atom: atom})
			pos += end + 1

		case ch == ']':
			return nil, malformed("unbalanced bracket", pos)

		case ch == '(':
			tokens = append(tokens, Token{Kind: TokenBranchOpen, Text: "(", Pos: pos})
			pos++

		case ch == ')':
			tokens = append(tokens, Token{Kind: TokenBranchClose, Text: ")", Pos: pos})
			pos++

		case ch == '.':
			tokens = append(tokens, Token{Kind: TokenDot, Text: ".", Pos: pos})
			pos++

		case ch >= '0' && ch <= '9':
			tokens = append(tokens, Token{Kind: TokenRingClosure, Text: string(ch), Pos: pos, Closure: int(ch - '0')})
			pos++

		case ch == '%':
			if pos+2 >= len(s) || !isDigit(s[pos+1]) || !isDigit(s[pos+2]) {
				return nil, malformed("'%' must be followed by two digits", pos)
			}
			label := int(s[pos+1]-'0')*10 + int(s[pos+2]-'0')
			tokens = append(tokens, Token{Kind: TokenRingClosure, Text: s[pos : pos+3], Pos: pos, Closure: label})
			pos += 3

		case ch == '+':
			return nil, malformed("charge outside brackets", pos)

		default:
			if order, ok := bondOrders[ch]; ok {
				tokens = append(tokens, Token{Kind: TokenBond, Text: string(ch), Pos: pos, Order: order})
				pos++
				continue
			}
			text := string(ch)
			if second, ok := readAhead[ch]; ok && pos+1 < len(s) && s[pos+1] == second {
				text = s[pos : pos+2]
			}
			symbol, ok := organic[text]
			if !ok {
				return nil, malformed(fmt.Sprintf("unknown symbol %q", text), pos)
			}
			tokens = append(tokens, Token{
				Kind: TokenAtom,
				Text: text,
				Pos:  pos,
				Atom: molecule.Atom{
					Symbol:   symbol,
					Aromatic: text[0] >= 'a' && text[0] <= 'z',
					HCount:   -1,
				},
			})
			pos += len(text)
		}
	}
	return tokens, nil
}

// parseBracket reads "isotope? symbol chirality? hcount? charge? class?".
// Chirality marks and atom classes are accepted and ignored.
func parseBracket(body string, pos int) (molecule.Atom, error) {
	atom := molecule.Atom{HCount: 0}
	if body == "" {
		return atom, malformed("empty bracket atom", pos)
	}
	i := 0

	for i < len(body) && isDigit(body[i]) {
		atom.Isotope = atom.Isotope*10 + int(body[i]-'0')
		i++
	}

	symbol, n := bracketSymbol(body[i:])
	if n == 0 {
		return atom, malformed(fmt.Sprintf("bad element in bracket atom %q", body), pos)
	}
	atom.Symbol = symbol
	atom.Aromatic = body[i] >= 'a' && body[i] <= 'z'
	i += n

	for i < len(body) && body[i] == '@' {
		i++
	}

	if i < len(body) && body[i] == 'H' {
		i++
		atom.HCount = 1
		if i < len(body) && isDigit(body[i]) {
			atom.HCount = int(body[i] - '0')
			i++
		}
	}

	if i < len(body) && (body[i] == '+' || body[i] == '-') {
		sign := 1
		if body[i] == '-' {
			sign = -1
		}
		mark := body[i]
		i++
		switch {
		case i < len(body) && isDigit(body[i]):
			mag := 0
			for i < len(body) && isDigit(body[i]) {
				mag = mag*10 + int(body[i]-'0')
				i++
			}
			atom.Charge = sign * mag
		default:
			mag := 1
			for i < len(body) && body[i] == mark {
				mag++
				i++
			}
			atom.Charge = sign * mag
		}
	}

	if i < len(body) && body[i] == ':' {
		i++
		start := i
		for i < len(body) && isDigit(body[i]) {
			i++
		}
		if i == start {
			return atom, malformed("atom class without digits", pos)
		}
	}

	if i != len(body) {
		return atom, malformed(fmt.Sprintf("unexpected %q in bracket atom", body[i:]), pos)
	}
	return atom, nil
}

// bracketSymbol matches the longest element symbol at the start of s and
// returns its canonical form and length.
func bracketSymbol(s string) (string, int) {
	if len(s) >= 2 {
		if sym, ok := aromaticBracket[s[:2]]; ok {
			return sym, 2
		}
		if molecule.IsElement(s[:2]) {
			return s[:2], 2
		}
	}
	if len(s) >= 1 {
		if sym, ok := aromaticBracket[s[:1]]; ok {
			return sym, 1
		}
		if molecule.IsElement(s[:1]) {
			return s[:1], 1
		}
	}
	return "", 0
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func malformed(msg string, pos int) *errors.AppError {
	return errors.MalformedInput(msg).WithDetail(fmt.Sprintf("offset=%d", pos))
}

//Personal.AI order the ending
