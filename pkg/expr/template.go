package expr

import "regexp"

// markerPattern matches one interpolation marker, non-greedily, across
// newlines. Mismatched or unmatched braces simply fail to match and stay
// literal.
var markerPattern = regexp.MustCompile(`(?s)\{\{(.*?)\}\}`)

// fragment is one piece of a split template: either literal text preserved
// verbatim or an expression source with its delimiters stripped.
type fragment struct {
	text   string
	isExpr bool
}

// HasMarker reports whether s contains at least one interpolation marker.
func HasMarker(s string) bool {
	return markerPattern.MatchString(s)
}

// splitTemplate splits a template into an ordered sequence of literal and
// expression fragments. A template with zero markers yields a single
// literal fragment.
func splitTemplate(tpl string) []fragment {
	matches := markerPattern.FindAllStringSubmatchIndex(tpl, -1)
	if len(matches) == 0 {
		return []fragment{{text: tpl}}
	}

	var frags []fragment
	last := 0
	for _, m := range matches {
		if m[0] > last {
			frags = append(frags, fragment{text: tpl[last:m[0]]})
		}
		frags = append(frags, fragment{text: tpl[m[2]:m[3]], isExpr: true})
		last = m[1]
	}
	if last < len(tpl) {
		frags = append(frags, fragment{text: tpl[last:]})
	}
	return frags
}
