package types

import (
	"strings"
)

// ParseTypeTag parses the textual form of a type signature:
//
//	Type    := 'bool' | 'u8' | 'u64' | 'u128' | 'address'
//	         | 'vector' '<' Type '>'
//	         | Address '::' Ident '::' Ident [ '<' Type (',' Type)* '>' ]
//	Address := '0x' HexDigits
//
// Generic argument lists are split on top-level commas only; commas inside
// nested generics do not count. Addresses are normalized to lower case so
// parsing and rendering round-trip.
func ParseTypeTag(s string) (TypeTag, error) {
	return parseTag(strings.TrimSpace(s), s)
}

// parseTag does the work; input carries the original top-level string so
// nested failures report the text the caller actually passed in.
func parseTag(s, input string) (TypeTag, error) {
	if err := checkBalanced(s, input); err != nil {
		return nil, err
	}

	switch s {
	case "bool":
		return Bool, nil
	case "u8":
		return U8, nil
	case "u64":
		return U64, nil
	case "u128":
		return U128, nil
	case "address":
		return Address, nil
	}

	if strings.HasPrefix(s, "vector<") {
		if !strings.HasSuffix(s, ">") {
			return nil, &ParseError{Input: input, Msg: "unterminated vector type"}
		}
		elem, err := parseTag(strings.TrimSpace(s[len("vector<"):len(s)-1]), input)
		if err != nil {
			return nil, err
		}
		return &VectorTag{Elem: elem}, nil
	}

	if strings.HasPrefix(s, "0x") {
		return parseStructTag(s, input)
	}

	return nil, &ParseError{Input: input, Msg: "token " + quoteHead(s) + " matches no known type form"}
}

func parseStructTag(s, input string) (TypeTag, error) {
	name := s
	var params []TypeTag
	if i := strings.IndexByte(s, '<'); i >= 0 {
		if !strings.HasSuffix(s, ">") {
			return nil, &ParseError{Input: input, Msg: "unterminated generic argument list"}
		}
		name = s[:i]
		for _, arg := range splitTopLevel(s[i+1 : len(s)-1]) {
			p, err := parseTag(strings.TrimSpace(arg), input)
			if err != nil {
				return nil, err
			}
			params = append(params, p)
		}
		if len(params) == 0 {
			return nil, &ParseError{Input: input, Msg: "empty generic argument list"}
		}
	}

	segments := strings.Split(name, "::")
	if len(segments) != 3 {
		return nil, &ParseError{Input: input, Msg: "struct type needs address::module::name, got " + quoteHead(name)}
	}
	addr, err := normalizeAddress(segments[0], input)
	if err != nil {
		return nil, err
	}
	if segments[1] == "" || segments[2] == "" {
		return nil, &ParseError{Input: input, Msg: "empty module or struct name"}
	}
	return &StructTag{
		Address:    addr,
		Module:     segments[1],
		Name:       segments[2],
		TypeParams: params,
	}, nil
}

// splitTopLevel splits s on commas at angle-bracket depth zero, so that
// "vector<u8>, Pair<X, Y>" yields exactly two arguments.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func checkBalanced(s, input string) error {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth < 0 {
				return &ParseError{Input: input, Msg: "unbalanced angle brackets"}
			}
		}
	}
	if depth != 0 {
		return &ParseError{Input: input, Msg: "unbalanced angle brackets"}
	}
	return nil
}

func normalizeAddress(addr, input string) (string, error) {
	if len(addr) < 3 || addr[0] != '0' || (addr[1] != 'x' && addr[1] != 'X') {
		return "", &ParseError{Input: input, Msg: "address " + quoteHead(addr) + " must be 0x-prefixed hex"}
	}
	for i := 2; i < len(addr); i++ {
		c := addr[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return "", &ParseError{Input: input, Msg: "address " + quoteHead(addr) + " contains non-hex characters"}
		}
	}
	return strings.ToLower(addr), nil
}

// quoteHead quotes s for an error message, truncating long inputs.
func quoteHead(s string) string {
	const max = 32
	if len(s) > max {
		s = s[:max] + "..."
	}
	return "\"" + s + "\""
}
