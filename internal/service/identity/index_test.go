package identity

import (
	"testing"

	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/roster"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func testRoster() []roster.Employee {
	return []roster.Employee{
		{ID: "u1", FirstName: "John", MiddleName: strPtr("Dela"), LastName: "Cruz"},
		{ID: "u2", FirstName: "Maria", LastName: "Santos"},
	}
}

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"  JOHN   Dela Cruz ", "john dela cruz"},
		{"john dela cruz", "john dela cruz"},
		{"MARIA\tSANTOS", "maria santos"},
		{"", ""},
	}
	for _, c := range cases {
		if got := roster.NormalizeName(c.input); got != c.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", c.input, got, c.want)
		}
	}

	// Idempotence
	once := roster.NormalizeName("  JOHN   Dela Cruz ")
	assert.Equal(t, once, roster.NormalizeName(once))
}

func TestIndexResolve(t *testing.T) {
	ix := NewIndex(testRoster())

	emp, ok := ix.Resolve("JOHN  DELA   CRUZ")
	assert.True(t, ok)
	assert.Equal(t, "u1", emp.ID)

	emp, ok = ix.Resolve("maria santos")
	assert.True(t, ok)
	assert.Equal(t, "u2", emp.ID)
}

func TestIndexUnmatched(t *testing.T) {
	ix := NewIndex(testRoster())

	_, ok := ix.Resolve("Pedro Penduko")
	assert.False(t, ok)
	_, _ = ix.Resolve("PEDRO  PENDUKO")
	_, _ = ix.Resolve("Unknown Person")

	unmatched := ix.Unmatched()
	assert.Len(t, unmatched, 2)
	assert.Equal(t, "Pedro Penduko", unmatched[0].RawName)
	assert.Equal(t, 2, unmatched[0].Occurrences)
	assert.Equal(t, 1, unmatched[1].Occurrences)
}

func TestUnmatchedDoesNotBlockMatched(t *testing.T) {
	ix := NewIndex(testRoster())

	_, _ = ix.Resolve("Ghost Name")
	emp, ok := ix.Resolve("John Dela Cruz")
	assert.True(t, ok)
	assert.Equal(t, "u1", emp.ID)
}
