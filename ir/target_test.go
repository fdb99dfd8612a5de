package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTargetExpand(t *testing.T) {
	tests := []struct {
		name   string
		target Target
		want   Target
	}{
		{"all", TargetAll, TargetAngular | TargetCSharp | TargetOcelot | TargetTypeScript | TargetProto},
		{"front end", TargetFrontEnd, TargetAngular | TargetTypeScript | TargetProto},
		{"concrete", TargetOcelot, TargetOcelot},
		{"mixed", TargetFrontEnd | TargetOcelot, TargetAngular | TargetTypeScript | TargetProto | TargetOcelot},
		{"none", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.target.Expand())
		})
	}
}

func TestTargetHas(t *testing.T) {
	assert.True(t, TargetAll.Has(TargetProto))
	assert.True(t, TargetFrontEnd.Has(TargetAngular))
	assert.False(t, TargetFrontEnd.Has(TargetOcelot))
	assert.True(t, TargetTypeScript.Has(TargetTypeScript))
	assert.False(t, TargetTypeScript.Has(TargetAngular))
	assert.False(t, TargetAll.Has(0))
}

func TestParseTargets(t *testing.T) {
	got, unknown := ParseTargets("GasparType.Angular | GasparType.Ocelot")
	assert.Equal(t, TargetAngular|TargetOcelot, got)
	assert.Empty(t, unknown)

	got, unknown = ParseTargets("typescript|Bogus")
	assert.Equal(t, TargetTypeScript, got)
	assert.Equal(t, []string{"Bogus"}, unknown)

	assert.Equal(t, "Angular | Ocelot", (TargetAngular | TargetOcelot).String())
	assert.Equal(t, "None", Target(0).String())
}
