package usecase

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satriahrh/lumi/domain"
)

func TestSystemInstructionContainsPersona(t *testing.T) {
	table := NewPromptTable("")

	for _, p := range domain.Pillars() {
		t.Run(string(p), func(t *testing.T) {
			persona, ok := PersonaPrompt(p)
			require.True(t, ok)

			got := table.SystemInstruction(string(p))
			want := persona + "\n\n" + DefaultBasePrompt
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("system instruction mismatch (-want +got):\n%s", diff)
			}
			assert.True(t, strings.HasPrefix(got, persona))
		})
	}
}

func TestSystemInstructionFallsBackToBase(t *testing.T) {
	table := NewPromptTable("Base customizada.")
	want := "Base customizada.\n\nBase customizada."

	for _, pillar := range []string{"", "geral", "CONTEUDO", "financas"} {
		t.Run("pillar="+pillar, func(t *testing.T) {
			assert.Equal(t, want, table.SystemInstruction(pillar))
		})
	}
}

func TestPersonaPromptsAreDistinct(t *testing.T) {
	seen := map[string]domain.Pillar{}
	for _, p := range domain.Pillars() {
		prompt, ok := PersonaPrompt(p)
		require.True(t, ok)
		require.NotEmpty(t, prompt)
		if other, dup := seen[prompt]; dup {
			t.Fatalf("pillars %s and %s share a prompt", p, other)
		}
		seen[prompt] = p
	}

	_, ok := PersonaPrompt(domain.Pillar("geral"))
	assert.False(t, ok)
}

func TestNewPromptTableBase(t *testing.T) {
	assert.Equal(t, DefaultBasePrompt, NewPromptTable("").Base())
	assert.Equal(t, "x", NewPromptTable("x").Base())
}
