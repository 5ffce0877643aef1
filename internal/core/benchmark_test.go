package core

import (
	"context"
	"io"
	"strconv"
	"testing"
)

// ============================================================================
// Validation Benchmarks
// ============================================================================

// BenchmarkValidate benchmarks a mix of valid and invalid candidates.
// Every submission runs through here.
func BenchmarkValidate(b *testing.B) {
	testCases := []Record{
		validRecord(),
		{},                                  // All required
		{Name: "J0hn", Address: "short"},    // Format errors
		{Name: "   ", Age: "17.5"},          // Whitespace and underage
		{CountryCode: "FR", Age: "NaN"},     // Unknown code, non-finite age
		{MobileNumber: "12345abcde", Age: "abc"},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			Validate(tc)
		}
	}
}

// BenchmarkValidate_Valid benchmarks the common case.
func BenchmarkValidate_Valid(b *testing.B) {
	r := validRecord()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Validate(r)
	}
}

// BenchmarkParseAge benchmarks age parsing.
func BenchmarkParseAge(b *testing.B) {
	testCases := []string{"25", " 18 ", "18.5", "1e2", "abc", "Inf"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			ParseAge(tc)
		}
	}
}

// ============================================================================
// Form Benchmarks
// ============================================================================

// BenchmarkFormSubmit benchmarks appending to a growing list.
// State is copy-on-write, so each append copies the list.
func BenchmarkFormSubmit(b *testing.B) {
	for _, size := range []int{0, 10, 100} {
		b.Run(strconv.Itoa(size), func(b *testing.B) {
			f := NewForm()
			for i := 0; i < size; i++ {
				f, _ = f.Submit(validRecord())
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				f.Submit(validRecord())
			}
		})
	}
}

// BenchmarkFormEditCycle benchmarks edit followed by update.
func BenchmarkFormEditCycle(b *testing.B) {
	f := NewForm()
	for i := 0; i < 10; i++ {
		f, _ = f.Submit(validRecord())
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		next, err := f.Edit(i % 10)
		if err != nil {
			b.Fatal(err)
		}
		next.Submit(validRecord())
	}
}

// ============================================================================
// Export Benchmarks
// ============================================================================

// BenchmarkWriteCSV benchmarks export of a realistic list.
func BenchmarkWriteCSV(b *testing.B) {
	records := make([]Record, 100)
	for i := range records {
		records[i] = validRecord()
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := WriteCSV(io.Discard, records); err != nil {
			b.Fatal(err)
		}
	}
}

// ============================================================================
// Parallel Benchmarks
// ============================================================================

// BenchmarkValidateParallel benchmarks concurrent validation, which shares
// the validator engine.
func BenchmarkValidateParallel(b *testing.B) {
	r := validRecord()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			Validate(r)
		}
	})
}

// BenchmarkServiceSubmitParallel benchmarks submissions across many
// sessions, one per goroutine.
func BenchmarkServiceSubmitParallel(b *testing.B) {
	s := NewService(SessionConfig{MaxSessions: 1 << 20})
	ctx := context.Background()

	b.RunParallel(func(pb *testing.PB) {
		id, err := s.NewSession(ctx)
		if err != nil {
			b.Error(err)
			return
		}
		for pb.Next() {
			if _, _, err := s.Submit(ctx, id, validRecord()); err != nil {
				b.Error(err)
				return
			}
		}
	})
}

// ============================================================================
// Memory Allocation Benchmarks
// ============================================================================

// BenchmarkValidateAllocs measures allocations per validation.
func BenchmarkValidateAllocs(b *testing.B) {
	valid := validRecord()
	invalid := Record{Name: "J0hn"}

	b.Run("Valid", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			Validate(valid)
		}
	})

	b.Run("Invalid", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			Validate(invalid)
		}
	})
}
