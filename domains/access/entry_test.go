package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserEntry_Rendering(t *testing.T) {
	u := UserEntry{Name: "A", Number: "+1555", UUID: "u1"}
	assert.Equal(t, "u1", u.IdentityKey())
	assert.Equal(t, "   UUID: u1\n   Number: +1555", u.PendingDetails())
	assert.Equal(t, "Name: A, Number: +1555, UUID: u1", u.Summary())
	assert.True(t, u.MatchesRemoval("u1"))
	assert.False(t, u.MatchesRemoval("A"))

	anon := UserEntry{UUID: "u2"}
	assert.Equal(t, "Unknown", anon.DisplayName())
	assert.Equal(t, "Name: Unknown, Number: N/A, UUID: u2", anon.Summary())
}

func TestGroupEntry_IdentityAndRemoval(t *testing.T) {
	g := GroupEntry{Name: "G1", ID: "100", InternalID: "int-100"}
	assert.Equal(t, "int-100", g.IdentityKey())
	assert.True(t, g.MatchesRemoval("100"))
	assert.True(t, g.MatchesRemoval("int-100"))
	assert.False(t, g.MatchesRemoval("200"))
	assert.False(t, GroupEntry{Name: "empty"}.MatchesRemoval(""))
	assert.Equal(t, "Name: G1, ID: 100, Internal ID: int-100", g.Summary())
}

func TestParseDomain(t *testing.T) {
	for in, want := range map[string]Domain{"user": DomainUser, "Users": DomainUser, "senders": DomainUser, "group": DomainGroup, " groups ": DomainGroup} {
		got, err := ParseDomain(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseDomain("channels")
	assert.Error(t, err)
}
