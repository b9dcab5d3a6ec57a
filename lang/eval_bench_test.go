package lang

import (
	"context"
	"io"
	"testing"
)

// BenchmarkParseString benchmarks parsing across statement shapes.
func BenchmarkParseString(b *testing.B) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "arithmetic",
			input: "1 + 2 * 3 - 4 / 5 ^ 2\n",
		},
		{
			name:  "declarations",
			input: "a = 1\nf(x) = x ^ 2 + a\nf(3)\n",
		},
		{
			name:  "symbolic",
			input: `\frac{\sqrt{16}}{\max{2}{\abs{0 - 3}}}` + "\n",
		},
		{
			name:  "summation",
			input: `\sum_{k = 1}^{100} k ^ 2` + "\n",
		},
		{
			name:  "vectors",
			input: `\vec{v} = (1, 2, 3, 4, 5)` + "\n" + "v_{3} * 2\n",
		},
	}

	for _, tt := range tests {
		b.Run(tt.name, func(b *testing.B) {
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				_, err := ParseString(context.Background(), tt.input)
				if err != nil {
					b.Fatalf("parse error: %v", err)
				}
			}
		})
	}
}

// BenchmarkEvaluate benchmarks evaluation against parsed programs.
func BenchmarkEvaluate(b *testing.B) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "arithmetic",
			input: "1 + 2 * 3 - 4 / 5 ^ 2\n",
		},
		{
			name:  "function_call",
			input: "f(x) = x ^ 2 + 1\nf(3)\n",
		},
		{
			name:  "summation_loop",
			input: `\sum_{k = 1}^{1000} k` + "\n",
		},
		{
			name:  "vector_map",
			input: `f(\vec{x})_{i} = x_{i} * i` + "\n" +
				"f((1, 2, 3, 4, 5, 6, 7, 8))\n",
		},
	}

	for _, tt := range tests {
		b.Run(tt.name, func(b *testing.B) {
			prog, err := ParseString(context.Background(), tt.input)
			if err != nil {
				b.Fatalf("parse error: %v", err)
			}

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				_, err := prog.Evaluate(context.Background())
				if err != nil {
					b.Fatalf("eval error: %v", err)
				}
			}
		})
	}
}

// BenchmarkFormat benchmarks rendering back to source notation.
func BenchmarkFormat(b *testing.B) {
	input := "a = 1\n" +
		"f(x) = x ^ 2 + a\n" +
		`g(\vec{x})_{i} = x_{i} * i` + "\n" +
		`\sum_{k = 1}^{10} f(k)` + "\n"

	prog, err := ParseString(context.Background(), input)
	if err != nil {
		b.Fatalf("parse error: %v", err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if err := prog.Format(context.Background(), io.Discard); err != nil {
			b.Fatalf("format error: %v", err)
		}
	}
}
