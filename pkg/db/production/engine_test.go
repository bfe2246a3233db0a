package production

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestEngineDefaults(t *testing.T) {
	e := NewEngine(nil, "", "", "v20250708", 0, zaptest.NewLogger(t))
	assert.Equal(t, "staging", e.SourceSchema)
	assert.Equal(t, "public", e.TargetSchema)
	assert.Equal(t, 3, e.VersionsToKeep)
}

func TestVersionedName(t *testing.T) {
	e := NewEngine(nil, "staging", "public", "v20250708", 3, zaptest.NewLogger(t))
	assert.Equal(t, "members_v20250708", e.VersionedName("members"))
	assert.Equal(t, `"public"."members_v20250708"`, e.table(e.VersionedName("members")))
	assert.Equal(t, `"staging"."members"`, e.sourceTable("members"))
}

func TestIsPromotable(t *testing.T) {
	assert.True(t, IsPromotable("members"))
	assert.True(t, IsPromotable("hearing_documents"))
	assert.True(t, IsPromotable("congressional_sessions"))
	assert.False(t, IsPromotable("validation_results"))
	assert.False(t, IsPromotable("members; DROP TABLE members"))
}
