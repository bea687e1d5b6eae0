package fuzztests

import (
	"testing"

	"isle-analyzer/internal/check"
	"isle-analyzer/internal/index"
)

// FuzzIndexResolves indexes inputs that parse, then checks that every
// resolved access points into the project and that re-submitting the same
// text succeeds.
func FuzzIndexResolves(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		p, err := index.FromSources([]index.Source{{Path: "/fuzz/a.isle", Content: input}})
		if err != nil {
			return
		}
		c := &index.Collector{Bodies: true}
		p.RunFullVisitor(c)
		for _, acc := range c.Accesses {
			if _, def, ok := acc.AccessDefLoc(); ok {
				if _, found := p.Files().Lookup(def.Pos.File); !found {
					t.Fatalf("%s resolved outside the project", acc)
				}
			}
		}
		_ = check.Run(p)

		if err := p.UpdateDefs("/fuzz/a.isle", input); err != nil {
			t.Fatalf("re-submitting parsed text failed: %v", err)
		}
	})
}
