// Package specs is a small named registry of ready-made Spec values the
// CLI's -S flag indexes into, mirroring specs/dict.py's defined_specs map.
package specs

import (
	"fmt"

	"rela/frontend"
	"rela/rir"
)

// anyPath is Sigma*, the domain "every path" specs in this registry are
// written over.
func anyPath() *rir.Prop { return rir.Star(rir.Neg()) }

// Defined is the registry of named specs the CLI's -S flag may select, the
// Go equivalent of specs/dict.py's defined_specs. "preserve" is written
// directly in RIR (preState = postState); "preserve_fe" asserts the same
// judgment compiled from the front-end sugar's Preserve modifier, so the
// two must always agree on every FEC.
var Defined = map[string]func() *rir.Spec{
	"preserve":    preserveRIR,
	"preserve_fe": preserveFE,
}

// preserveRIR asserts that the network forwards every path identically
// before and after the change, grounded on specs/rirspecs.py's
// preserve_rir.
func preserveRIR() *rir.Spec {
	return rir.Equal(rir.PreState, rir.PostState)
}

// preserveFE asserts the same judgment via the front-end sugar, grounded
// on specs/fespecs.py's preserve_fe.
func preserveFE() *rir.Spec {
	return frontend.Compile(frontend.Atomic(anyPath(), frontend.Preserve()))
}

// Get looks up a named spec, constructing a fresh instance on every call
// (Specs are immutable value trees, so there is no reason to cache one).
func Get(name string) (*rir.Spec, error) {
	ctor, ok := Defined[name]
	if !ok {
		return nil, fmt.Errorf("specs: unknown spec %q", name)
	}
	return ctor(), nil
}

// Names returns the registry's keys, for CLI usage/help text.
func Names() []string {
	out := make([]string, 0, len(Defined))
	for name := range Defined {
		out = append(out, name)
	}
	return out
}
