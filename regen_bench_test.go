package regen

import (
	"strings"
	"testing"

	"github.com/regenhq/regen/dfa"
)

// benchInput is the canned 10,100-byte digit-group text.
func benchInput() []byte {
	var sb strings.Builder
	for i := 0; i < 100; i++ {
		sb.WriteString(strings.Repeat("0123456789", 10))
		sb.WriteByte('_')
	}
	return []byte(sb.String())
}

func BenchmarkConstruct(b *testing.B) {
	for i := 0; i < b.N; i++ {
		re := MustCompile("((0123456789)_?)*", DefaultOptions())
		_ = re
	}
}

func benchmarkFullMatch(b *testing.B, level int) {
	opts := DefaultOptions()
	re := MustCompile("((0123456789)_?)*", opts)
	if level >= 0 {
		re.CompileDFA(dfa.OptLevel(level))
	}
	input := benchInput()
	b.SetBytes(int64(len(input)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !re.FullMatch(input) {
			b.Fatal("unexpected mismatch")
		}
	}
}

func BenchmarkFullMatchTable(b *testing.B)    { benchmarkFullMatch(b, -1) }
func BenchmarkFullMatchCompiled(b *testing.B) { benchmarkFullMatch(b, 0) }
func BenchmarkFullMatchO2(b *testing.B)       { benchmarkFullMatch(b, 2) }
func BenchmarkFullMatchO3(b *testing.B)       { benchmarkFullMatch(b, 3) }
