package ledger

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// KeyMode selects how aggressively an SDI identifier is normalized.
type KeyMode int

const (
	// KeyLoose keeps the trimmed value as-is apart from numeric cleanup.
	// Used when partitioning a single source by identifier presence.
	KeyLoose KeyMode = iota
	// KeyStrict reduces the value to its digits and treats anything of three
	// characters or fewer as absent. Used on both sides of a cross-source
	// join, where the two systems store the same identifier with different
	// padding and punctuation.
	KeyStrict
)

// strictMinLen is the shortest digit string KeyStrict accepts as a real
// identifier. SDI identifiers are much longer; short remnants are noise.
const strictMinLen = 4

var (
	trailingZeroFraction = regexp.MustCompile(`^(\d+)\.0+$`)
	nonDigits            = regexp.MustCompile(`\D`)
	allZero              = regexp.MustCompile(`^0+(\.0+)?$`)
)

// NormalizeKey converts a raw SDI value into its canonical join key.
// Numerically-equal representations (int 123, float 123.0, string "123.0")
// normalize to the same key. The empty string means "no identifier present".
func NormalizeKey(raw any, mode KeyMode) string {
	var s string
	switch v := raw.(type) {
	case nil:
		return ""
	case float64:
		if math.IsNaN(v) {
			return ""
		}
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			s = strconv.FormatFloat(v, 'f', 0, 64)
		} else {
			s = strconv.FormatFloat(v, 'f', -1, 64)
		}
	case float32:
		return NormalizeKey(float64(v), mode)
	case int:
		s = strconv.Itoa(v)
	case int64:
		s = strconv.FormatInt(v, 10)
	case string:
		s = v
	default:
		s = CellString(raw)
	}

	s = strings.TrimSpace(s)
	if m := trailingZeroFraction.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	if mode == KeyStrict {
		s = nonDigits.ReplaceAllString(s, "")
	}

	switch strings.ToLower(s) {
	case "", "nan", "none", "null":
		return ""
	}
	if allZero.MatchString(s) {
		return ""
	}
	if mode == KeyStrict && len(s) < strictMinLen {
		return ""
	}
	return s
}
