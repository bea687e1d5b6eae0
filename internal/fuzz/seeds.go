package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB - ограничение для тестового корпуса
)

// inlineSeeds cover forms the testdata files do not.
var inlineSeeds = []string{
	"",
	"(type i32 (primitive i32))\n",
	"(decl multi partial f (i32 i32) i32)\n(rule f_one 3 (f x @ (and 1 y) _) (g x))\n",
	"(rule (f (if-let a (g 0x1_F)) (if (h -0b101))) (k $C))\n",
	"(; nested (; block ;) comment ;)\n(pragma overlap_errors)\n",
	"(extern const $C u8)\n(rule (f x) (let ((a i32 x) (b i32 a)) b))\n",
	"(extractor (e a b) (and (t a) b))\n",
	"(convert A B ab)\n(type A.B.C (enum))\n",
	"(((( ))))", ")))", "(rule", "(decl f (", "-", "@@", "(type 9x)",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.isle файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".isle" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
