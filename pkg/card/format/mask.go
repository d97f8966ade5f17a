package format

import "strings"

// mask is the subset of an Excel style number format understood by the
// default formatter: literal text around a single numeric placeholder run,
// digit grouping, a fixed number of decimals and a percent sign.
type mask struct {
	prefix   string
	suffix   string
	grouping bool
	decimals int // -1 when the mask does not fix decimals
	percent  bool
}

// parseMask reads the positive section of hint. An empty or "General" hint
// yields a grouped mask with free decimals.
func parseMask(hint string) mask {
	if i := strings.IndexByte(hint, ';'); i >= 0 {
		hint = hint[:i]
	}
	m := mask{decimals: -1}
	trimmed := strings.TrimSpace(hint)
	if trimmed == "" || strings.EqualFold(trimmed, "general") || strings.EqualFold(trimmed, "g") {
		m.grouping = true
		return m
	}

	var pre, post strings.Builder
	inNumber, seenNumber, afterPoint := false, false, false
	decimals := 0
	literal := func(s string) {
		if seenNumber {
			post.WriteString(s)
		} else {
			pre.WriteString(s)
		}
	}

	runes := []rune(hint)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"':
			j := i + 1
			for j < len(runes) && runes[j] != '"' {
				j++
			}
			literal(string(runes[i+1 : min(j, len(runes))]))
			i = j
			inNumber = false
		case r == '\\' && i+1 < len(runes):
			i++
			literal(string(runes[i]))
			inNumber = false
		case r == '0' || r == '#':
			if seenNumber && !inNumber {
				// a second placeholder run is printed literally
				literal(string(r))
				continue
			}
			inNumber, seenNumber = true, true
			if afterPoint {
				decimals++
			}
		case r == ',' && inNumber:
			if !afterPoint {
				m.grouping = true
			}
		case r == '.' && inNumber && !afterPoint:
			afterPoint = true
		case r == '%':
			m.percent = true
			literal("%")
			inNumber = false
		default:
			literal(string(r))
			inNumber = false
		}
	}

	if afterPoint || seenNumber {
		m.decimals = decimals
	}
	m.prefix = pre.String()
	m.suffix = post.String()
	return m
}
