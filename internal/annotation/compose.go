package annotation

import "sort"

// Compose builds the variant list for one annotation.
//
// Labels are alternative names for the annotated fact, longest first by
// convention of the label tables. Values, units, and actions are all
// optional and may hold several alternatives each.
//
// Generation rules:
//   - Every action is cartesian-combined with every label
//     ("<action> <label>"); with no actions the labels stand alone.
//   - With values present, every base produces "<base>: <value>" per value,
//     and "<base>: <value><unit>" per unit (no space before the unit, so
//     unit strings like "°C" attach directly to the number).
//   - Whenever any value was emitted, the last two original labels are
//     appended verbatim so a short fallback without value always exists.
//
// The result is sorted by string length, descending, with a stable sort so
// equal-length variants keep generation order. The rendering surface walks
// this list and picks the longest variant that fits.
//
// Returns:
//   - []string: At least one variant (labels must be non-empty)
func Compose(labels, values, units, actions []string) []string {
	bases := make([]string, 0, len(labels)*(len(actions)+1))
	for _, label := range labels {
		if len(actions) == 0 {
			bases = append(bases, label)
			continue
		}
		for _, action := range actions {
			bases = append(bases, action+" "+label)
		}
	}

	variants := make([]string, 0, len(bases)*(len(values)*(len(units)+1)+1))
	for _, base := range bases {
		if len(values) == 0 {
			variants = append(variants, base)
			continue
		}
		for _, value := range values {
			variants = append(variants, base+": "+value)
			for _, unit := range units {
				variants = append(variants, base+": "+value+unit)
			}
		}
	}

	// Short fallback renderings without value or unit.
	if len(values) > 0 {
		tail := labels
		if len(tail) > 2 {
			tail = tail[len(tail)-2:]
		}
		variants = append(variants, tail...)
	}

	sort.SliceStable(variants, func(i, j int) bool {
		return len(variants[i]) > len(variants[j])
	})
	return variants
}
