package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookup_NormalizesNames(t *testing.T) {
	c := New([]Species{{Name: "Embermouse", HP: 35}})

	s, ok := c.Lookup("  EMBERMOUSE ")
	require.True(t, ok)
	require.Equal(t, "Embermouse", s.Name)

	_, ok = c.Lookup("missingno")
	require.False(t, ok)
}

func TestSnapshot_FrozenCopy(t *testing.T) {
	sp := Species{Name: "Embermouse", Types: []string{"fire"}, Moves: []string{"ember"}, HP: 35, Attack: 55}

	snap := sp.Snapshot("Sparky", 12)
	require.Equal(t, "Sparky", snap.Name)
	require.Equal(t, "Embermouse", snap.Species)
	require.Equal(t, 12, snap.Level)

	// Later catalog edits must never leak into the snapshot.
	sp.Types[0] = "water"
	sp.Moves[0] = "splash"
	require.Equal(t, "fire", snap.Types[0])
	require.Equal(t, "ember", snap.Moves[0])
}

func TestSnapshot_Defaults(t *testing.T) {
	sp := Species{Name: "Aquaphin", HP: 44}
	snap := sp.Snapshot("", 0)
	require.Equal(t, "Aquaphin", snap.Name, "display name falls back to the species name")
	require.Equal(t, 1, snap.Level)
}
