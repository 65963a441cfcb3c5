package database

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf16"
)

// canonical builds the byte form of a block that is hashed. The layout must
// match json.dumps(block, sort_keys=True) byte for byte so nodes written in
// other languages calculate the same hash for the same block: keys sorted,
// ", " and ": " separators, ASCII only strings and shortest round trip floats.
type canonical struct {
	bytes.Buffer
}

func (c *canonical) block(b Block) {
	c.WriteString(`{"index": `)
	c.WriteString(strconv.Itoa(b.Index))
	c.WriteString(`, "previous_hash": `)
	c.str(b.PreviousHash)
	c.WriteString(`, "proof": `)
	c.WriteString(strconv.FormatInt(b.Proof, 10))
	c.WriteString(`, "timestamp": `)
	c.WriteString(formatFloat(b.Timestamp))
	c.WriteString(`, "transactions": [`)
	for i, tx := range b.Transactions {
		if i > 0 {
			c.WriteString(", ")
		}
		c.tx(tx)
	}
	c.WriteString("]}")
}

func (c *canonical) tx(tx Tx) {
	c.WriteString(`{"amount": `)
	c.WriteString(formatNumber(tx.Amount))
	c.WriteString(`, "recipient": `)
	c.str(tx.Recipient)
	c.WriteString(`, "sender": `)
	c.str(tx.Sender)
	c.WriteByte('}')
}

// str writes a quoted string escaping everything outside of printable ASCII.
func (c *canonical) str(s string) {
	c.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			c.WriteString(`\"`)
		case '\\':
			c.WriteString(`\\`)
		case '\n':
			c.WriteString(`\n`)
		case '\r':
			c.WriteString(`\r`)
		case '\t':
			c.WriteString(`\t`)
		case '\b':
			c.WriteString(`\b`)
		case '\f':
			c.WriteString(`\f`)
		default:
			switch {
			case r >= 0x20 && r < 0x7f:
				c.WriteRune(r)
			case r >= 0x10000:
				r1, r2 := utf16.EncodeRune(r)
				fmt.Fprintf(c, `\u%04x\u%04x`, r1, r2)
			default:
				fmt.Fprintf(c, `\u%04x`, r)
			}
		}
	}
	c.WriteByte('"')
}

// =============================================================================

// formatNumber writes an amount the way it reads back once decoded by the
// reference node: integer literals stay integers, everything else is a float.
func formatNumber(n json.Number) string {
	s := n.String()
	if s == "" {
		return "0"
	}

	if !strings.ContainsAny(s, ".eE") {
		if i, ok := new(big.Int).SetString(s, 10); ok {
			return i.String()
		}
	}

	// A range error still hands back the signed infinity.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !math.IsInf(f, 0) {
		return s
	}

	return formatFloat(f)
}

// formatFloat produces the shortest representation that round trips, using
// fixed notation for decimal exponents in [-4, 16) and exponent notation
// outside of it. Integral values always carry a trailing ".0".
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	s := strconv.FormatFloat(f, 'e', -1, 64)

	var sign string
	if s[0] == '-' {
		sign = "-"
		s = s[1:]
	}

	mant, expStr, _ := strings.Cut(s, "e")
	exp, _ := strconv.Atoi(expStr)

	if exp < -4 || exp >= 16 {
		return sign + s
	}

	digits := strings.Replace(mant, ".", "", 1)
	point := exp + 1

	switch {
	case point <= 0:
		return sign + "0." + strings.Repeat("0", -point) + digits
	case point >= len(digits):
		return sign + digits + strings.Repeat("0", point-len(digits)) + ".0"
	default:
		return sign + digits[:point] + "." + digits[point:]
	}
}
