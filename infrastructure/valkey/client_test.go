package valkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildKey(t *testing.T) {
	prefix := normalizePrefix("gatekeeper")
	assert.Equal(t, "gatekeeper:", prefix)
	assert.Equal(t, "gatekeeper:pending:user", buildKey(prefix, "pending", "user"))
	assert.Equal(t, "gatekeeper", buildKey(prefix))
	assert.Equal(t, "pending:group", buildKey(normalizePrefix(""), "pending", "group"))
}
