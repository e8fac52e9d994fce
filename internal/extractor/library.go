package extractor

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// RecoverFromPDF recovers text from raw PDF bytes. It first asks the
// structured PDF library, which preserves reading order when the file
// is well-formed, and falls back to the byte-level passes of Recover
// when the library output fails the readability gate. Like Recover it
// never fails; incompatible input yields a short or empty string.
func RecoverFromPDF(data []byte) string {
	if text := recoverWithLibrary(data); isReadableStatement(text) {
		return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	}
	return Recover(data)
}

// recoverWithLibrary extracts text with ledongthuc/pdf. The library
// panics on some malformed files, so the whole call is recovered.
func recoverWithLibrary(data []byte) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			line := strings.TrimSpace(strings.Join(parts, " "))
			if line != "" {
				b.WriteString(line)
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

// statementWords are terms found in virtually every Brazilian bank
// statement. Library output containing none of them is likely garbage
// from an identity-encoded font.
var statementWords = []string{
	"extrato", "saldo", "data", "valor", "conta", "agencia", "agência",
	"lancamento", "lançamento", "pix", "transferencia", "transferência",
	"pagamento", "compra", "saque", "deposito", "depósito", "banco",
	"periodo", "período", "credito", "crédito", "debito", "débito",
}

// isReadableStatement gates library output: enough text, mostly
// readable characters, and at least one recognizable statement word.
func isReadableStatement(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) <= 50 {
		return false
	}
	if readableRatio(trimmed) <= 0.6 {
		return false
	}
	lower := strings.ToLower(trimmed)
	for _, word := range statementWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// readableRatio measures the share of characters a human would read in
// a bank statement. Strict ASCII letters are counted rather than
// unicode.IsLetter, which also matches the accented garbage produced
// by identity-encoded fonts.
func readableRatio(text string) float64 {
	total := 0
	readable := 0
	for _, r := range text {
		total++
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
			strings.ContainsRune(`.,-/:;()'"R$€£¥%&@#!?+=*`, r) {
			readable++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}
