package persona_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/chusbot/internal/persona"
)

func TestBuiltin(t *testing.T) {
	t.Parallel()

	store, err := persona.Builtin()
	require.NoError(t, err)

	ids := store.List()
	require.Len(t, ids, 15)
	assert.Equal(t, "friendly_tutor", ids[0])
	assert.Equal(t, "scientist_and_storyteller", ids[len(ids)-1])
	assert.NotContains(t, ids, persona.DefaultID)
	assert.Contains(t, store.Get(persona.DefaultID), "You are Chus")
}

func TestGetFallsBackToDefault(t *testing.T) {
	t.Parallel()

	store, err := persona.Builtin()
	require.NoError(t, err)

	def := store.Get(persona.DefaultID)
	for _, id := range []string{"", "unknown", "CREATIVE_WRITER", " creative_writer", "default2"} {
		t.Run(id, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, def, store.Get(id))
		})
	}

	assert.NotEqual(t, def, store.Get("creative_writer"))
}

func TestHas(t *testing.T) {
	t.Parallel()

	store, err := persona.Builtin()
	require.NoError(t, err)

	assert.True(t, store.Has("creative_writer"))
	assert.False(t, store.Has(persona.DefaultID))
	assert.False(t, store.Has("nope"))
}

func TestListIsACopy(t *testing.T) {
	t.Parallel()

	store, err := persona.New([]persona.Persona{
		{ID: "a", Instruction: "A"},
		{ID: persona.DefaultID, Instruction: "D"},
		{ID: "b", Instruction: "B"},
	})
	require.NoError(t, err)

	ids := store.List()
	assert.Equal(t, []string{"a", "b"}, ids)
	ids[0] = "mutated"
	assert.Equal(t, []string{"a", "b"}, store.List())
}

func TestNewRejectsInvalidTables(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		personas []persona.Persona
	}{
		{name: "missing default", personas: []persona.Persona{{ID: "a", Instruction: "A"}}},
		{name: "empty id", personas: []persona.Persona{{ID: " ", Instruction: "A"}, {ID: persona.DefaultID, Instruction: "D"}}},
		{name: "upper case id", personas: []persona.Persona{{ID: "Tutor", Instruction: "A"}, {ID: persona.DefaultID, Instruction: "D"}}},
		{name: "blank instruction", personas: []persona.Persona{{ID: "a", Instruction: "  "}, {ID: persona.DefaultID, Instruction: "D"}}},
		{name: "duplicate id", personas: []persona.Persona{{ID: "a", Instruction: "A"}, {ID: "a", Instruction: "B"}, {ID: persona.DefaultID, Instruction: "D"}}},
		{name: "duplicate default", personas: []persona.Persona{{ID: persona.DefaultID, Instruction: "A"}, {ID: persona.DefaultID, Instruction: "D"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := persona.New(tt.personas)
			require.ErrorIs(t, err, persona.ErrInvalidTable)
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "personas.yaml")
	content := "- id: pirate\n  instruction: Talk like a pirate.\n- id: default\n  instruction: Be helpful.\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	store, err := persona.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"pirate"}, store.List())
	assert.Equal(t, "Talk like a pirate.", store.Get("pirate"))

	_, err = persona.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	builtin, err := persona.LoadFile("")
	require.NoError(t, err)
	assert.Len(t, builtin.List(), 15)
}
