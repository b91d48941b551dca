package grammar

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	shimmerErrors "shimmer-hq/shimmer/pkg/shimmer/errors"
)

// Arrow is the only separator the parser recognizes between container and vector.
const Arrow = '→'

// ArrowString is Arrow as a string, for strings.Cut and friends.
const ArrowString = string(Arrow)

// TemporalMarker introduces the deadline token.
const TemporalMarker = 'τ'

// Family names a metadata token family.
type Family string

const (
	FamilyRN          Family = "rn"           // run/reference numbers
	FamilySession     Family = "session"      // session identifiers
	FamilyShard       Family = "shard"        // shard references
	FamilyCTag        Family = "ctag"         // free-form tag runs
	FamilyDeliverable Family = "deliverables" // artifact references
)

// Families lists every metadata family in report order.
var Families = []Family{FamilyRN, FamilySession, FamilyShard, FamilyCTag, FamilyDeliverable}

// Action describes one action code.
type Action struct {
	Code    rune
	Meaning string
}

// Actions is the closed set of action codes, in canonical order.
var Actions = []Action{
	{Code: 'c', Meaning: "complete"},
	{Code: 'p', Meaning: "progress"},
	{Code: 'a', Meaning: "acknowledge"},
	{Code: 'q', Meaning: "query"},
	{Code: 'P', Meaning: "plan"},
	{Code: 'e', Meaning: "error"},
}

// IsAction reports whether r is one of the action codes.
func IsAction(r rune) bool {
	for _, a := range Actions {
		if a.Code == r {
			return true
		}
	}
	return false
}

// ActionMeaning returns the meaning of an action code, or "unknown".
func ActionMeaning(code string) string {
	for _, a := range Actions {
		if string(a.Code) == code {
			return a.Meaning
		}
	}
	return "unknown"
}

// ActionCodes returns the action codes as a string ("cpaqPe").
func ActionCodes() string {
	var sb strings.Builder
	for _, a := range Actions {
		sb.WriteRune(a.Code)
	}
	return sb.String()
}

// Confusables maps look-alike runes that producers emit in place of an
// ASCII action code.
var Confusables = map[rune]rune{
	'ε': 'e', // Greek small epsilon
	'е': 'e', // Cyrillic small ie
	'а': 'a', // Cyrillic small a
	'с': 'c', // Cyrillic small es
	'ρ': 'p', // Greek small rho
	'Ρ': 'P', // Greek capital rho
}

// RepairRune returns the action code r is confused with, if any.
func RepairRune(r rune) (rune, bool) {
	fixed, ok := Confusables[r]
	return fixed, ok
}

// Grammar is one version of the Shimmer pattern table. A Grammar is
// immutable and safe for concurrent use.
type Grammar struct {
	// Version is the grammar revision, e.g. "1.0".
	Version string

	// families maps each metadata family to its pattern.
	families map[Family]*regexp.Regexp

	// Temporal matches the deadline marker; group 1 holds the digits.
	Temporal *regexp.Regexp

	// LintRun splits the container tail into candidate tokens for scoring.
	LintRun *regexp.Regexp

	// CompactToken is the whole-token grammar the linter accepts as compact.
	CompactToken *regexp.Regexp

	// VerboseToken matches spelled-out words (letters and underscore only).
	VerboseToken *regexp.Regexp

	// VerboseMinLen is the length a VerboseToken must exceed to be flagged.
	VerboseMinLen int

	// TagRun matches a ctag run up to the temporal marker, arrow or '['.
	TagRun *regexp.Regexp
}

// Pattern returns the pattern for a metadata family, or nil if unknown.
func (g *Grammar) Pattern(f Family) *regexp.Regexp {
	return g.families[f]
}

// Extract matches every family independently over tail. Matches are
// non-exclusive: one substring may be reported under several families.
// Every family is present in the result, possibly with an empty slice.
func (g *Grammar) Extract(tail string) map[Family][]string {
	out := make(map[Family][]string, len(Families))
	for _, f := range Families {
		found := g.families[f].FindAllString(tail, -1)
		if found == nil {
			found = []string{}
		}
		out[f] = found
	}
	return out
}

// String implements fmt.Stringer.
func (g *Grammar) String() string {
	return "shimmer/" + g.Version
}

var (
	// compactTokenPattern is shared by all versions; it already restricted
	// sessions to lowercase base36.
	compactTokenPattern = regexp.MustCompile(`^(rn\d+|s:[a-z0-9]+|s\d+|@s\d+|[fdrm]\d{2}|ctag[.:|a-zA-Z0-9_()\-]+)$`)
	lintRunPattern      = regexp.MustCompile(`[A-Za-z0-9_:.@]+`)
	verboseTokenPattern = regexp.MustCompile(`^[A-Za-z_]+$`)
	tagRunPattern       = regexp.MustCompile(`ctag\.[^τ\[→]*`)
	temporalPattern     = regexp.MustCompile(`τ(\d+)`)
)

func newGrammar(version, sessionPattern string) *Grammar {
	return &Grammar{
		Version: version,
		families: map[Family]*regexp.Regexp{
			FamilyRN:          regexp.MustCompile(`rn\d+`),
			FamilySession:     regexp.MustCompile(sessionPattern),
			FamilyShard:       regexp.MustCompile(`@s\d+`),
			FamilyCTag:        regexp.MustCompile(`ctag[.:|a-zA-Z0-9_()\-]+`),
			FamilyDeliverable: regexp.MustCompile(`[fdrm]\d{2}`),
		},
		Temporal:      temporalPattern,
		LintRun:       lintRunPattern,
		CompactToken:  compactTokenPattern,
		VerboseToken:  verboseTokenPattern,
		VerboseMinLen: 24,
		TagRun:        tagRunPattern,
	}
}

var (
	// V1_0 is the original text-container grammar.
	V1_0 = newGrammar("1.0", `s:\w+|s\d+`)

	// V1_1 restricts session identifiers to lowercase base36.
	V1_1 = newGrammar("1.1", `s:[0-9a-z]+|s\d+`)

	// Default is the grammar used when the caller does not choose one.
	Default = V1_0

	registry = map[string]*Grammar{
		V1_0.Version: V1_0,
		V1_1.Version: V1_1,
	}
)

// Versions returns the known grammar versions in ascending order.
func Versions() []string {
	out := make([]string, 0, len(registry))
	for v := range registry {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the grammar for version. An empty version selects Default.
// "v1.1" and "1.1" are equivalent.
func Lookup(version string) (*Grammar, error) {
	v := strings.TrimPrefix(strings.TrimSpace(version), "v")
	if v == "" {
		return Default, nil
	}
	if g, ok := registry[v]; ok {
		return g, nil
	}
	return nil, fmt.Errorf("unsupported grammar version %q: %s",
		version, shimmerErrors.SuggestName(v, Versions()))
}

// MustLookup is like Lookup but panics on an unknown version.
func MustLookup(version string) *Grammar {
	g, err := Lookup(version)
	if err != nil {
		panic(err)
	}
	return g
}
