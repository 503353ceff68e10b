package extract

import (
	"strings"
)

// contentText scans a decoded PDF page content stream and collects the
// arguments of text-showing operators (Tj, TJ, ' and ") in stream order.
// Text positioning operators (Td, TD, T*) and ET emit newlines so line
// structure roughly survives. Hex strings and CID-encoded fonts are not
// decoded; unsupported fonts simply contribute nothing.
func contentText(content []byte) string {
	var out strings.Builder
	var pending []string

	i := 0
	n := len(content)
	for i < n {
		c := content[i]
		switch {
		case c == '(':
			s, next := literalString(content, i)
			pending = append(pending, s)
			i = next
		case c == '<':
			// hex string or dict open; skip to closing bracket
			i = skipHex(content, i)
		case c == '%':
			for i < n && content[i] != '\n' {
				i++
			}
		case isDelim(c) || isSpace(c):
			i++
		default:
			op, next := token(content, i)
			i = next
			switch op {
			case "Tj", "'", "\"":
				if len(pending) > 0 {
					out.WriteString(pending[len(pending)-1])
					out.WriteByte(' ')
				}
				if op != "Tj" {
					out.WriteByte('\n')
				}
				pending = pending[:0]
			case "TJ":
				for _, s := range pending {
					out.WriteString(s)
				}
				out.WriteByte(' ')
				pending = pending[:0]
			case "Td", "TD", "T*", "ET":
				out.WriteByte('\n')
				pending = pending[:0]
			}
		}
	}

	return out.String()
}

// literalString decodes a parenthesized PDF string starting at open.
// Returns the decoded text and the index after the closing parenthesis.
func literalString(content []byte, open int) (string, int) {
	var b strings.Builder
	depth := 0
	i := open
	n := len(content)

	for i < n {
		c := content[i]
		switch c {
		case '\\':
			if i+1 >= n {
				return b.String(), n
			}
			i++
			switch content[i] {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'b', 'f':
			case '(', ')', '\\':
				b.WriteByte(content[i])
			default:
				if content[i] >= '0' && content[i] <= '7' {
					v, next := octal(content, i)
					if v < 128 {
						b.WriteByte(byte(v))
					}
					i = next - 1
				}
			}
			i++
		case '(':
			if depth > 0 {
				b.WriteByte(c)
			}
			depth++
			i++
		case ')':
			depth--
			if depth == 0 {
				return b.String(), i + 1
			}
			b.WriteByte(c)
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}

	return b.String(), n
}

func octal(content []byte, i int) (int, int) {
	v := 0
	for j := 0; j < 3 && i < len(content) && content[i] >= '0' && content[i] <= '7'; j++ {
		v = v*8 + int(content[i]-'0')
		i++
	}
	return v, i
}

func skipHex(content []byte, i int) int {
	n := len(content)
	if i+1 < n && content[i+1] == '<' {
		// dictionary; skip both brackets and let the scanner continue
		return i + 2
	}
	for i < n && content[i] != '>' {
		i++
	}
	if i < n {
		i++
	}
	return i
}

func token(content []byte, i int) (string, int) {
	start := i
	n := len(content)
	for i < n && !isSpace(content[i]) && !isDelim(content[i]) {
		i++
	}
	if i == start {
		return string(content[start]), start + 1
	}
	return string(content[start:i]), i
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

func isDelim(c byte) bool {
	switch c {
	case '[', ']', '{', '}', '/', '>':
		return true
	}
	return false
}
