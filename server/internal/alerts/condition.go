package alerts

import (
	"strconv"
	"strings"

	"github.com/Ckuran148/Jolt/pkg/types"
)

// evalCondition evaluates a rule condition string against a store report.
//
// Supported expressions (field operator value):
//
//	integrity_min < 60
//	corrective_actions > 0
//	missing_dayparts >= 1
//	late_dayparts >= 1
//	sanitizer == EXPIRED
//
// Returns (fires bool, triggering value float64).
// Returns (false, 0) if the expression cannot be parsed, the field is
// unknown, or the report has no value for it yet.
func evalCondition(cond string, r *types.StoreReport) (bool, float64) {
	parts := strings.Fields(cond)
	if len(parts) != 3 {
		return false, 0
	}
	field, op, rhs := parts[0], parts[1], parts[2]

	if field == "sanitizer" {
		switch op {
		case "==":
			return strings.EqualFold(r.Sanitizer, rhs), float64(types.SanitizerSeverity(r.Sanitizer))
		case "!=":
			return !strings.EqualFold(r.Sanitizer, rhs), float64(types.SanitizerSeverity(r.Sanitizer))
		}
		return false, 0
	}

	v, ok := numericField(field, r)
	if !ok {
		return false, 0
	}
	threshold, err := strconv.ParseFloat(rhs, 64)
	if err != nil {
		return false, 0
	}
	return compareFloat(v, op, threshold), v
}

// numericField maps a field name to its value in the report.
func numericField(field string, r *types.StoreReport) (float64, bool) {
	switch field {
	case "integrity_min":
		lowest, seen := 0, false
		for _, c := range r.Dayparts {
			if c.IntegrityScore == nil {
				continue
			}
			if !seen || *c.IntegrityScore < lowest {
				lowest, seen = *c.IntegrityScore, true
			}
		}
		return float64(lowest), seen
	case "corrective_actions":
		n := 0
		for _, c := range r.Dayparts {
			n += c.CorrectiveActions
		}
		return float64(n), true
	case "missing_dayparts":
		return float64(countStatus(r, types.StatusMissing)), true
	case "late_dayparts":
		return float64(countStatus(r, types.StatusLate)), true
	default:
		return 0, false
	}
}

func countStatus(r *types.StoreReport, status string) int {
	n := 0
	for _, c := range r.Dayparts {
		if c.Status == status {
			n++
		}
	}
	return n
}

// compareFloat applies a comparison operator to two float64 values.
func compareFloat(v float64, op string, threshold float64) bool {
	switch op {
	case ">":
		return v > threshold
	case ">=":
		return v >= threshold
	case "<":
		return v < threshold
	case "<=":
		return v <= threshold
	case "==":
		return v == threshold
	case "!=":
		return v != threshold
	default:
		return false
	}
}
