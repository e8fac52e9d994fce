package extractor

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Recover produces a best-effort plain-text approximation of a PDF's
// visible content by pattern-matching over the PDF's own syntax. It
// never fails: unparsable input simply yields a short or empty string.
//
// Four passes run over the byte stream, and their fragments are
// concatenated in discovery order:
//  1. Text-showing operators ((...) Tj and [...] TJ) inside
//     stream...endstream regions, with PDF escape decoding.
//  2. Printable-run heuristic over the same regions, gated by
//     plausibility checks so binary noise is rejected.
//  3. Parenthesized strings inside BT...ET text objects, which catches
//     operators that pass 1 misses when stream boundaries are off.
//  4. Transaction-shaped lines matched over the whole document, for
//     PDFs whose internal structure defeats the first three passes.
func Recover(data []byte) string {
	doc := decodeLatin1(data)
	regions := streamRegions(doc)

	var fragments []string
	fragments = append(fragments, textShowingPass(regions)...)
	fragments = append(fragments, readableRunPass(regions)...)
	fragments = append(fragments, textObjectPass(doc)...)
	fragments = append(fragments, statementLinePass(doc)...)

	return normalizeText(strings.Join(fragments, " "))
}

// decodeLatin1 maps every byte to exactly one rune so that PDF syntax,
// which is byte-oriented, never produces a decode error on binary data.
func decodeLatin1(data []byte) string {
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}

// streamRegions returns the content of every stream...endstream block.
func streamRegions(doc string) []string {
	var regions []string
	offset := 0
	for offset < len(doc) {
		idx := strings.Index(doc[offset:], "stream")
		if idx < 0 {
			break
		}
		start := offset + idx + len("stream")
		end := strings.Index(doc[start:], "endstream")
		if end < 0 {
			break
		}
		if end > 0 {
			regions = append(regions, doc[start:start+end])
		}
		offset = start + end + len("endstream")
	}
	return regions
}

var (
	// (text) Tj — literal string shown by the Tj operator
	litTjRe = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)\s*Tj`)
	// [...] TJ — array of strings and kerning offsets
	tjArrayRe = regexp.MustCompile(`\[([^\[\]]*)\]\s*TJ`)
	// literal strings inside arrays and BT...ET blocks
	litStringRe = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)`)
)

// textShowingPass extracts text shown through Tj/TJ operators.
func textShowingPass(regions []string) []string {
	var fragments []string
	for _, region := range regions {
		for _, m := range litTjRe.FindAllStringSubmatch(region, -1) {
			if s := strings.TrimSpace(decodeEscapes(m[1])); s != "" {
				fragments = append(fragments, s)
			}
		}
		for _, m := range tjArrayRe.FindAllStringSubmatch(region, -1) {
			var b strings.Builder
			for _, lm := range litStringRe.FindAllStringSubmatch(m[1], -1) {
				b.WriteString(decodeEscapes(lm[1]))
			}
			if s := strings.TrimSpace(b.String()); s != "" {
				fragments = append(fragments, s)
			}
		}
	}
	return fragments
}

var (
	dateRe     = regexp.MustCompile(`\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}`)
	currencyRe = regexp.MustCompile(`R\$|BRL|\d+[,.]\d{2}`)
	digitRe    = regexp.MustCompile(`\d`)
	letterRe   = regexp.MustCompile(`[A-Za-zÀ-ÿ]`)
)

// readableRunPass strips everything that is not printable ASCII or
// Latin-1 supplement from each stream region and keeps the remainder if
// it looks like statement content rather than binary noise. Many real
// statements embed readable text outside formal text-showing operators.
func readableRunPass(regions []string) []string {
	var fragments []string
	for _, region := range regions {
		cleaned := strings.Map(func(r rune) rune {
			switch {
			case r >= 0x20 && r <= 0x7E:
				return r
			case r >= 0xA0 && r <= 0xFF:
				return r
			case r == '\n' || r == '\r' || r == '\t':
				return r
			}
			return -1
		}, region)
		cleaned = strings.TrimSpace(whitespaceRe.ReplaceAllString(cleaned, " "))
		if utf8.RuneCountInString(cleaned) > 20 && plausibleFragment(cleaned) {
			fragments = append(fragments, cleaned)
		}
	}
	return fragments
}

// plausibleFragment accepts a fragment when it carries both a digit and
// a letter, a date, or a currency amount.
func plausibleFragment(s string) bool {
	if digitRe.MatchString(s) && letterRe.MatchString(s) {
		return true
	}
	return dateRe.MatchString(s) || currencyRe.MatchString(s)
}

// textObjectPass extracts parenthesized strings from BT...ET blocks.
func textObjectPass(doc string) []string {
	var fragments []string
	remaining := doc
	for {
		bt := strings.Index(remaining, "BT")
		if bt < 0 {
			break
		}
		et := strings.Index(remaining[bt:], "ET")
		if et < 0 {
			break
		}
		block := remaining[bt : bt+et]
		for _, m := range litStringRe.FindAllStringSubmatch(block, -1) {
			if s := strings.TrimSpace(decodeEscapes(m[1])); s != "" {
				fragments = append(fragments, s)
			}
		}
		remaining = remaining[bt+et+2:]
	}
	return fragments
}

var statementLineRes = []*regexp.Regexp{
	// date, description in letters/spaces/asterisks, decimal amount
	regexp.MustCompile(`\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}[ \t]+[A-Za-zÀ-ÿ*][A-Za-zÀ-ÿ* ]*[ \t]+-?\d+[.,]\d{2}`),
	// capitalized words, optional currency symbol, decimal amount
	regexp.MustCompile(`[A-ZÀ-Ý][A-Za-zÀ-ÿ]*(?:[ \t]+[A-ZÀ-Ý][A-Za-zÀ-ÿ]*)*[ \t]+(?:R\$\s*)?\d+[.,]\d{2}`),
	// whole lines mentioning common Brazilian transaction vocabulary
	regexp.MustCompile(`(?im)^.*(?:PIX|TED|DOC|TRANSF|PAGTO|COMPRA|SAQUE|DEPOSITO).*$`),
}

// statementLinePass matches transaction-shaped lines over the entire
// document, not limited to stream regions.
func statementLinePass(doc string) []string {
	var fragments []string
	for _, re := range statementLineRes {
		for _, m := range re.FindAllString(doc, -1) {
			if s := strings.TrimSpace(m); s != "" {
				fragments = append(fragments, s)
			}
		}
	}
	return fragments
}

// decodeEscapes resolves PDF string escapes: octal \ddd, \n, \r, \t,
// \\, \( and \). Any control character left after decoding becomes a
// space so fragments stay single-line.
func decodeEscapes(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '\\', '(', ')':
			b.WriteByte(s[i])
		default:
			if s[i] >= '0' && s[i] <= '7' {
				val := int(s[i] - '0')
				for j := 0; j < 2 && i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '7'; j++ {
					i++
					val = val*8 + int(s[i]-'0')
				}
				if val < 256 {
					b.WriteRune(rune(val))
				}
			} else {
				b.WriteByte(s[i])
			}
		}
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return ' '
		}
		return r
	}, b.String())
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	disallowedRe = regexp.MustCompile(`[^0-9A-Za-zÀ-ÖØ-öø-ÿ\s.,\-/R$€£¥:()@]`)
)

// normalizeText strips characters outside the statement alphabet and
// collapses whitespace runs to single spaces.
func normalizeText(s string) string {
	s = disallowedRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
