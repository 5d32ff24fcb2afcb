package mockval

import (
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// Context identifies the field a value is generated for. Generators derive
// every value from it, so repeated runs over the same schema and documents
// produce byte-identical output.
type Context struct {
	TypeName  string // schema type owning the field
	FieldName string
	Path      string // dot-joined route from the operation root
}

func (c Context) key() string {
	return c.TypeName + ":" + c.FieldName + ":" + c.Path
}

func (c Context) hash() uint64 {
	return xxhash.Sum64String(c.key())
}

// Generator produces one deterministic sample value for a field.
type Generator func(ctx Context, args []any) any

// referenceTime anchors all date and time generators.
var referenceTime = time.Date(2020, time.May, 17, 9, 24, 51, 0, time.UTC)

var loremWords = []string{
	"aliqua", "architecto", "corporis", "cumque", "dolore", "eligendi",
	"explicabo", "facere", "incidunt", "labore", "maiores", "molestiae",
	"natus", "nemo", "nesciunt", "officia", "perferendis", "quibusdam",
	"recusandae", "repellat", "saepe", "tempora", "veniam", "voluptatem",
}

var firstNames = []string{
	"Ada", "Alan", "Barbara", "Edsger", "Grace", "John", "Katherine", "Ken",
}

var lastNames = []string{
	"Hamilton", "Hopper", "Kernighan", "Liskov", "Lovelace", "Ritchie",
	"Thompson", "Turing",
}

var cityNames = []string{
	"Bergen", "Fukuoka", "Gdansk", "Leuven", "Porto", "Tampere", "Valdivia",
	"Wellington",
}

func pick(items []string, h uint64) string {
	return items[h%uint64(len(items))]
}

func genWord(ctx Context, _ []any) any {
	return pick(loremWords, ctx.hash())
}

func genWords(ctx Context, args []any) any {
	n := intArg(args, 0, 3)
	h := ctx.hash()
	parts := make([]string, n)
	for i := range parts {
		parts[i] = pick(loremWords, h+uint64(i))
	}
	return strings.Join(parts, " ")
}

func genSentence(ctx Context, _ []any) any {
	h := ctx.hash()
	parts := make([]string, 5)
	for i := range parts {
		parts[i] = pick(loremWords, h+uint64(i))
	}
	s := strings.Join(parts, " ")
	return strings.ToUpper(s[:1]) + s[1:] + "."
}

func genInt(ctx Context, args []any) any {
	min := intArg(args, 0, 0)
	max := intArg(args, 1, 99)
	if max <= min {
		return min
	}
	return min + int(ctx.hash()%uint64(max-min+1))
}

func genFloat(ctx Context, _ []any) any {
	return float64(ctx.hash()%10000) / 100.0
}

// genBoolean is a constant: stable fixtures matter more than variety.
func genBoolean(Context, []any) any { return true }

func genDate(ctx Context, args []any) any {
	format := "YYYY-MM-DDTHH:mm:ssZ"
	if len(args) > 0 {
		if s, ok := args[0].(string); ok && s != "" {
			format = s
		}
	}
	return referenceTime.Format(momentToGoLayout(format))
}

func genUUID(ctx Context, _ []any) any {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(ctx.key())).String()
}

func genEmail(ctx Context, _ []any) any {
	return pick(loremWords, ctx.hash()) + "@example.com"
}

func genURL(ctx Context, _ []any) any {
	return "https://example.com/" + pick(loremWords, ctx.hash())
}

func genName(ctx Context, _ []any) any {
	h := ctx.hash()
	return pick(firstNames, h) + " " + pick(lastNames, h>>8)
}

func genCity(ctx Context, _ []any) any {
	return pick(cityNames, ctx.hash())
}

func genJSON(Context, []any) any {
	return map[string]any{}
}

// builtinGenerators is the closed registry of generator keys recognized in
// scalar configuration.
var builtinGenerators = map[string]Generator{
	"word":     genWord,
	"words":    genWords,
	"sentence": genSentence,
	"int":      genInt,
	"integer":  genInt,
	"float":    genFloat,
	"boolean":  genBoolean,
	"date":     genDate,
	"uuid":     genUUID,
	"email":    genEmail,
	"url":      genURL,
	"name":     genName,
	"city":     genCity,
	"json":     genJSON,
}

func intArg(args []any, i, fallback int) int {
	if i >= len(args) {
		return fallback
	}
	switch v := args[i].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	case string:
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	return fallback
}

// momentToGoLayout translates the moment-style tokens accepted in date
// generator arguments (YYYY, MM, DD, HH, mm, ss) into a Go time layout.
func momentToGoLayout(format string) string {
	r := strings.NewReplacer(
		"YYYY", "2006",
		"MM", "01",
		"DD", "02",
		"HH", "15",
		"mm", "04",
		"ss", "05",
		"Z", "Z07:00",
	)
	return r.Replace(format)
}
