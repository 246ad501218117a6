package extract

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"quote-service/internal/quote/model"
)

// Rules is a rule-based extractor for Portuguese purchase requests.
type Rules struct{}

const qtyUnit = `(?:un|und|unid|unidades?|p[çc]s?|pe[çc]as?|cx|caixas?|pct|pacotes?|kits?|jogos?)`

var (
	reBullet = regexp.MustCompile(`^\s*(?:[-*•·–>]+|\d{1,3}[.)]|[a-z][)])\s+`)

	// "10x pinça", "3 un pinça", "2 pçs de pinça"
	reLeadQty = regexp.MustCompile(`(?i)^(\d+)\s*(?:x|` + qtyUnit + `)?\.?\s+(?:de\s+)?(\S.*)$`)
	// "pinça - 10", "pinça x10", "pinça qtd: 4", "pinça: 3 un"
	reTrailSep = regexp.MustCompile(`(?i)^(.*?\S)(?:\s+[-–:=]\s*|\s*[:=]\s*|\s+x\s*|\s+(?:qtde?|quant|quantidade)\.?:?\s*)(\d+)\s*` + qtyUnit + `?\.?$`)
	// "pinça 10un", "pinça 3 caixas"
	reTrailUnit = regexp.MustCompile(`(?i)^(.*?\S)\s+(\d+)\s*` + qtyUnit + `\.?$`)
	// "pinça (2)", "pinça (2 un)"
	reParenQty = regexp.MustCompile(`(?i)^(.*?\S)\s*\(\s*(\d+)\s*(?:x|` + qtyUnit + `)?\.?\s*\)$`)

	// a leading number followed by a measurement is a size, not a quantity
	reMeasure = regexp.MustCompile(`(?i)^(?:mm|cm|m|ml|fr|g|mg|pol)\b`)
)

var fold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

// lines starting with one of these are salutations or small talk
var chatter = []string{
	"bom dia", "boa tarde", "boa noite", "ola", "oi", "prezado", "prezada", "prezados",
	"caro", "cara", "tudo bem", "segue", "seguem", "favor cotar", "por favor", "gostaria",
	"solicito", "solicitamos", "preciso de cotacao", "pedido de cotacao",
	"obrigado", "obrigada", "grato", "grata", "att", "atenciosamente", "abraco", "abracos",
	"abs", "cordialmente", "aguardo", "fico no aguardo", "hello", "hi", "thanks", "regards",
}

func (Rules) Extract(_ context.Context, text string) ([]model.QueryTerm, error) {
	var out []model.QueryTerm
	for _, line := range splitLines(text) {
		line = reBullet.ReplaceAllString(line, "")
		line = stripIntro(line)
		if line == "" || isChatter(line) {
			continue
		}
		for _, piece := range splitCommas(line) {
			if isChatter(piece) {
				continue
			}
			if t, ok := parseTerm(piece); ok {
				out = append(out, t)
			}
		}
	}
	return sanitize(out), nil
}

// stripIntro removes "Segue lista:" style prefixes and keeps what follows.
func stripIntro(line string) string {
	i := strings.Index(line, ":")
	if i <= 0 {
		return strings.TrimSpace(line)
	}
	if isChatter(line[:i]) {
		return strings.TrimSpace(line[i+1:])
	}
	return strings.TrimSpace(line)
}

func isChatter(s string) bool {
	f, _, err := transform.String(fold, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		f = strings.ToLower(s)
	}
	f = strings.Join(strings.FieldsFunc(f, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}), " ")
	if f == "" {
		return true
	}
	for _, c := range chatter {
		if f == c || strings.HasPrefix(f, c+" ") {
			return true
		}
	}
	return false
}

func parseTerm(s string) (model.QueryTerm, bool) {
	s = strings.TrimSpace(strings.Trim(s, " .;-–"))
	if s == "" {
		return model.QueryTerm{}, false
	}

	if m := reLeadQty.FindStringSubmatch(s); m != nil && !reMeasure.MatchString(m[2]) {
		return term(m[2], m[1]), true
	}
	for _, rx := range []*regexp.Regexp{reParenQty, reTrailSep, reTrailUnit} {
		if m := rx.FindStringSubmatch(s); m != nil {
			return term(m[1], m[2]), true
		}
	}
	return model.QueryTerm{Text: s, Quantity: 1}, true
}

func term(name, qty string) model.QueryTerm {
	n, err := strconv.Atoi(qty)
	if err != nil || n < 1 {
		n = 1
	}
	return model.QueryTerm{Text: strings.Trim(name, " -–:"), Quantity: n}
}
