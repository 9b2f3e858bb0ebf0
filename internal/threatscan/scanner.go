package threatscan

import "regexp"

// Classification is the verdict for a scanned field value.
type Classification string

const (
	// Safe means no known injection pattern matched.
	Safe Classification = "safe"

	// SQLSuspect means the value matched a SQL injection pattern.
	SQLSuspect Classification = "sql_suspect"

	// ScriptSuspect means the value matched a script injection pattern.
	ScriptSuspect Classification = "script_suspect"
)

// Field is one named input value to scan.
type Field struct {
	Name  string
	Value string

	// Numeric marks required-numeric fields (e.g. price). Their quote and
	// keyword noise is a numeric-validation concern, so SQL patterns are
	// skipped; they are still scanned for script patterns as strings.
	Numeric bool
}

// Verdict is the per-field scan result.
type Verdict struct {
	Field          string
	Classification Classification
}

// SQL injection patterns, checked in order. The quote check runs first:
// it is the cheapest and catches the bulk of real probes (e.g.
// "admin' OR '1'='1") before the keyword patterns are consulted.
var sqlPatterns = []*regexp.Regexp{
	// Unescaped quote characters and statement terminators
	regexp.MustCompile(`['";]`),
	// Boolean-logic injection: OR/AND adjacent to a comparison operator
	regexp.MustCompile(`(?i)\b(?:or|and)\b\s*[\w'"]*\s*(?:=|<>|!=|<=|>=|<|>)`),
	// Stacked query keywords (case-insensitive, spanning whitespace)
	regexp.MustCompile(`(?is)\bunion\b\s+(?:all\s+)?select\b`),
	regexp.MustCompile(`(?is)\bdrop\b\s+table\b`),
	regexp.MustCompile(`(?is)\binsert\b\s+into\b`),
	regexp.MustCompile(`(?is)\bupdate\b\s+\S+\s+set\b`),
	regexp.MustCompile(`(?is)\bdelete\b\s+from\b`),
}

// Script injection patterns, checked after the SQL family.
var scriptPatterns = []*regexp.Regexp{
	// <script>...</script> blocks
	regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`),
	// Any HTML tag carrying an on<event>= attribute
	regexp.MustCompile(`(?is)<\w+[^>]*\bon\w+\s*=`),
	// javascript: URI scheme
	regexp.MustCompile(`(?i)javascript\s*:`),
	// Embedding tags
	regexp.MustCompile(`(?i)<\s*(?:iframe|object|embed)\b`),
}

// Scanner classifies untrusted input against precompiled injection
// patterns. It is stateless and safe for concurrent use; the zero value
// is ready to use.
//
// Detection here is a fast-fail gate, not a substitute for parameterised
// queries or output encoding. Every pattern is compiled once at package
// load; a scan is a single pass over each field.
type Scanner struct{}

// New creates a Scanner.
func New() *Scanner {
	return &Scanner{}
}

// ScanField classifies a single field value.
//
// SQL patterns are checked before script patterns; the first match wins.
// An empty value is Safe; absence is a required-field concern handled
// before scanning.
func (s *Scanner) ScanField(f Field) Classification {
	if f.Value == "" {
		return Safe
	}

	if !f.Numeric {
		for _, p := range sqlPatterns {
			if p.MatchString(f.Value) {
				return SQLSuspect
			}
		}
	}

	for _, p := range scriptPatterns {
		if p.MatchString(f.Value) {
			return ScriptSuspect
		}
	}

	return Safe
}

// Scan classifies each field and returns the overall payload verdict.
//
// Fields are scanned in slice order, which makes the result deterministic:
// the overall verdict is the first non-Safe classification encountered
// (per-field, SQL patterns already take precedence over script patterns).
func (s *Scanner) Scan(fields []Field) (Classification, []Verdict) {
	overall := Safe
	verdicts := make([]Verdict, 0, len(fields))

	for _, f := range fields {
		c := s.ScanField(f)
		verdicts = append(verdicts, Verdict{Field: f.Name, Classification: c})
		if overall == Safe && c != Safe {
			overall = c
		}
	}

	return overall, verdicts
}

// String returns a Field for a plain string value.
func String(name, value string) Field {
	return Field{Name: name, Value: value}
}

// Numeric returns a Field for a required-numeric value.
// The value is scanned for script patterns only.
func Numeric(name, value string) Field {
	return Field{Name: name, Value: value, Numeric: true}
}
