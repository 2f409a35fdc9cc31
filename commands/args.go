package commands

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

// ErrUnbalancedQuote reports a command line with an unterminated quote.
var ErrUnbalancedQuote = errors.New("unbalanced quote")

// SplitArgs tokenizes a command line shell-style: whitespace separates
// tokens, and single or double quotes group spaces into one token.
func SplitArgs(line string) ([]string, error) {
	var out []string
	var current strings.Builder
	var quote rune
	quoted := false

	flush := func() {
		if quoted || current.Len() > 0 {
			out = append(out, current.String())
			current.Reset()
			quoted = false
		}
	}

	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			quoted = true
		case unicode.IsSpace(r):
			flush()
		default:
			current.WriteRune(r)
		}
	}
	if quote != 0 {
		return nil, ErrUnbalancedQuote
	}
	flush()
	return out, nil
}

// NormalizeFlags repairs "spaced" flags users sometimes type, so the flag
// extractor sees the canonical form:
//
//	-- bedrooms 3      -> --bedrooms 3
//	--total rooms 8    -> --total_rooms 8
//	--color sheen blue -> --color_sheen blue
func NormalizeFlags(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		tok := args[i]
		if tok == "--" && i+1 < len(args) {
			next := strings.ToLower(args[i+1])
			if next == "bedrooms" || next == "bathrooms" || next == "kitchen" {
				out = append(out, "--"+next)
				i++
				continue
			}
		}
		if strings.EqualFold(tok, "--total") && i+1 < len(args) && strings.EqualFold(args[i+1], "rooms") {
			out = append(out, "--total_rooms")
			i++
			continue
		}
		if strings.EqualFold(tok, "--color") && i+1 < len(args) && strings.EqualFold(args[i+1], "sheen") {
			out = append(out, "--color_sheen")
			i++
			continue
		}
		if strings.EqualFold(tok, "--home") && i+1 < len(args) && strings.EqualFold(args[i+1], "city") {
			out = append(out, "--home_city")
			i++
			continue
		}
		out = append(out, tok)
	}
	return out
}

// Flag consumes the first "--name value" pair matching any of the given
// names from args, returning the value. A flag at the end of the line with
// no value is consumed and yields "". Missing flags yield "".
func Flag(args *[]string, names ...string) string {
	list := *args
	for i := 0; i < len(list); i++ {
		for _, name := range names {
			if !strings.EqualFold(list[i], name) {
				continue
			}
			if i+1 < len(list) {
				value := list[i+1]
				*args = append(list[:i], list[i+2:]...)
				return value
			}
			*args = list[:i]
			return ""
		}
	}
	return ""
}

// Positional pops the first remaining token, or "".
func Positional(args *[]string) string {
	list := *args
	if len(list) == 0 {
		return ""
	}
	*args = list[1:]
	return list[0]
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// intFrom extracts the digits from a messy numeric string ("30,000",
// "14billion") and parses them, falling back when nothing usable remains.
func intFrom(raw string, fallback int) int {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return fallback
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return fallback
	}
	return n
}

// floatFrom extracts the first decimal number from a messy string
// ("7.5/10", "3.4 billion"), falling back when none is found.
func floatFrom(raw string, fallback float64) float64 {
	start := -1
	for i, r := range raw {
		if r >= '0' && r <= '9' {
			start = i
			break
		}
	}
	if start < 0 {
		return fallback
	}
	end := start
	seenDot := false
	for end < len(raw) {
		c := raw[end]
		switch {
		case c >= '0' && c <= '9':
			end++
		case c == '.' && !seenDot:
			seenDot = true
			end++
		default:
			goto parse
		}
	}
parse:
	segment := strings.TrimSuffix(raw[start:end], ".")
	f, err := strconv.ParseFloat(segment, 64)
	if err != nil {
		return fallback
	}
	return f
}

// truncateRunes caps a string at n runes.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// groupDigits renders an integer with thousands separators for display.
func groupDigits(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
