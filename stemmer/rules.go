package stemmer

// prefixRule describes one removable prefix. Nasal variants of me- and
// pe- assimilate the root-initial consonant; drop/onsets drive the
// reversal in nasal.go. Rules are tried in slice order, so longer and
// more specific patterns must come first (meng before men before me).
type prefixRule struct {
	form   string
	drop   byte   // consonant swallowed by the nasal, 0 for plain prefixes
	onsets string // root-initial letters this variant attaches to
}

var prefixRules = []prefixRule{
	// Nasal variants of me- and pe-.
	{form: "meng", drop: 'k', onsets: "kghaeiou"},
	{form: "meny", drop: 's', onsets: "s"},
	{form: "peng", drop: 'k', onsets: "kghaeiou"},
	{form: "peny", drop: 's', onsets: "s"},
	{form: "mem", drop: 'p', onsets: "pbfv"},
	{form: "men", drop: 't', onsets: "tdcjz"},
	{form: "pem", drop: 'p', onsets: "pbfv"},
	{form: "pen", drop: 't', onsets: "tdcjz"},
	// Plain prefixes, no sound change.
	{form: "ber"},
	{form: "ter"},
	{form: "per"},
	{form: "me"},
	{form: "pe"},
	{form: "di"},
	{form: "ke"},
	{form: "se"},
}

// suffixRules holds removable suffixes, longest first so that -wati is
// not eaten as a bare -i and -kan is preferred over -an.
var suffixRules = []string{
	"isme", "wati",
	"kan", "nya", "lah", "kah", "pun", "wan",
	"an", "i",
}

// circumfix is a prefix+suffix pair that must be stripped together:
// removing only one side leaves a form no other rule handles correctly
// (kerajaan minus -an is keraja, which ke- would over-strip).
type circumfix struct {
	prefix string
	suffix string
}

var circumfixRules = []circumfix{
	{"meng", "kan"},
	{"meny", "kan"},
	{"peng", "an"},
	{"peny", "an"},
	{"mem", "kan"},
	{"men", "kan"},
	{"pem", "an"},
	{"pen", "an"},
	{"ber", "an"},
	{"per", "an"},
	{"ter", "kan"},
	{"ke", "an"},
	{"pe", "an"},
	{"me", "kan"},
	{"di", "kan"},
	{"se", "nya"},
}

// nasalPrefix reports whether p is a nasal variant that may have
// assimilated the root onset.
func nasalPrefix(p string) (prefixRule, bool) {
	for _, r := range prefixRules {
		if r.form == p && r.drop != 0 {
			return r, true
		}
	}
	return prefixRule{}, false
}
