package validate

import (
	"sort"

	"github.com/agext/levenshtein"

	"oval-editor/internal/models"
)

// maxSuggestionDistance bounds how far a misspelt name may be from a
// supported one to be offered as a suggestion.
const maxSuggestionDistance = 3

// Properties reports the property names variant does not support. The factory
// skips those silently; this turns them into warnings with a suggestion.
func (v *Validator) Properties(variant string, names []string) Report {
	vt, ok := v.Registry.Lookup(variant)
	if !ok {
		return Report{errorf(CodeUnsupported, variant, "unknown variant %q", variant)}
	}
	known := make([]string, len(vt.Properties))
	for i, p := range vt.Properties {
		known[i] = p.Name
	}
	return unsupported(variant, names, known, func(n string) bool { return vt.Supports(n) })
}

// Behaviors reports behavior keys the object variant does not accept.
func (v *Validator) Behaviors(variant string, keys []string) Report {
	vt, ok := v.Registry.Lookup(variant)
	if !ok {
		return Report{errorf(CodeUnsupported, variant, "unknown variant %q", variant)}
	}
	if vt.Kind != models.KindObject || !vt.Behaviors {
		var r Report
		for _, k := range sorted(keys) {
			r = append(r, warnf(CodeUnsupported, variant+"/behaviors/"+k, "%s has no behaviors", variant))
		}
		return r
	}
	shape := models.BehaviorsShapeFor(variant)
	return unsupported(variant+"/behaviors", keys, shape.Keys(), shape.Allows)
}

func unsupported(owner string, names, known []string, supported func(string) bool) Report {
	var r Report
	for _, name := range sorted(names) {
		if supported(name) {
			continue
		}
		i := warnf(CodeUnsupported, owner+"/"+name, "%q is not supported and will be ignored", name)
		if s, ok := Suggest(name, known); ok {
			i.Expected = []string{s}
			i.Message += ", did you mean " + s + "?"
		}
		r = append(r, i)
	}
	return r
}

// Suggest returns the candidate closest to name by edit distance.
func Suggest(name string, candidates []string) (string, bool) {
	best, bestDist := "", maxSuggestionDistance+1
	for _, c := range candidates {
		d := levenshtein.Distance(name, c, nil)
		if d < bestDist || (d == bestDist && c < best) {
			best, bestDist = c, d
		}
	}
	if best == "" || bestDist > maxSuggestionDistance || bestDist >= len(name) {
		return "", false
	}
	return best, true
}

func sorted(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
