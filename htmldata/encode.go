package htmldata

import (
	"strings"

	"go4.org/bytereplacer"
	"golang.org/x/net/html"
)

// htmlSpace is the set of HTML whitespace characters.
const htmlSpace = " \t\n\f\r"

// mustBeQuoted lists the characters that cannot appear in an unquoted attribute value:
// http://dev.w3.org/html5/spec-LC/syntax.html#attributes-0
const mustBeQuoted = "/\"'=<>`" + htmlSpace

var singleQuoteEscaper = bytereplacer.New("'", "&#39;")

// EncodeAttributeValue prepares text to be written as an attribute value and picks the quote
// to surround it with. quote is empty when the value may be written unquoted; alwaysQuote
// forces double quotes in that case.
//
// Values containing one kind of quote are wrapped in the other kind. Values containing both
// are wrapped in single quotes, with the single quotes escaped.
func EncodeAttributeValue(text string, alwaysQuote bool) (value, quote string) {
	if text == "" {
		return "", `"`
	}

	hasDouble := strings.IndexByte(text, '"') >= 0
	hasSingle := strings.IndexByte(text, '\'') >= 0

	switch {
	case hasDouble && hasSingle:
		return string(singleQuoteEscaper.Replace([]byte(text))), "'"
	case hasDouble:
		return text, "'"
	case hasSingle:
		return text, `"`
	case alwaysQuote || strings.ContainsAny(text, mustBeQuoted):
		return text, `"`
	}
	return text, ""
}

// AttributeEncode returns text as a complete, quoted if needed, attribute value.
func AttributeEncode(text string, alwaysQuote bool) string {
	value, quote := EncodeAttributeValue(text, alwaysQuote)
	return quote + value + quote
}

// HTMLEncode escapes the characters that are special in HTML text.
func HTMLEncode(s string) string {
	return html.EscapeString(s)
}

// HTMLDecode resolves character references.
func HTMLDecode(s string) string {
	return html.UnescapeString(s)
}
