package access

import "fmt"

// Entry is a candidate or approved identity. IdentityKey is the value that
// must be unique within an allowed list.
type Entry interface {
	IdentityKey() string
	DisplayName() string
	// MatchesRemoval reports whether a remove command for key targets this entry.
	MatchesRemoval(key string) bool
	// PendingDetails renders the indented lines shown under a pending ordinal.
	PendingDetails() string
	// Summary renders the single line shown in an allowed listing.
	Summary() string
}

type UserEntry struct {
	Name   string `yaml:"name" json:"name"`
	Number string `yaml:"number,omitempty" json:"number,omitempty"`
	UUID   string `yaml:"uuid" json:"uuid"`
}

func (u UserEntry) IdentityKey() string { return u.UUID }

func (u UserEntry) DisplayName() string { return orDefault(u.Name, "Unknown") }

func (u UserEntry) MatchesRemoval(key string) bool { return u.UUID == key }

func (u UserEntry) PendingDetails() string {
	return fmt.Sprintf("   UUID: %s\n   Number: %s", orDefault(u.UUID, "N/A"), orDefault(u.Number, "N/A"))
}

func (u UserEntry) Summary() string {
	return fmt.Sprintf("Name: %s, Number: %s, UUID: %s", u.DisplayName(), orDefault(u.Number, "N/A"), orDefault(u.UUID, "N/A"))
}

// GroupEntry is deduplicated by its internal id. Removal accepts either the
// internal id or the external id shown to operators.
type GroupEntry struct {
	Name       string `yaml:"name" json:"name"`
	ID         string `yaml:"id" json:"id"`
	InternalID string `yaml:"int_id" json:"int_id"`
}

func (g GroupEntry) IdentityKey() string { return g.InternalID }

func (g GroupEntry) DisplayName() string { return orDefault(g.Name, "Unknown") }

func (g GroupEntry) MatchesRemoval(key string) bool {
	return (g.InternalID != "" && g.InternalID == key) || (g.ID != "" && g.ID == key)
}

func (g GroupEntry) PendingDetails() string {
	return fmt.Sprintf("   ID: %s\n   Internal ID: %s", orDefault(g.ID, "N/A"), orDefault(g.InternalID, "N/A"))
}

func (g GroupEntry) Summary() string {
	return fmt.Sprintf("Name: %s, ID: %s, Internal ID: %s", g.DisplayName(), orDefault(g.ID, "N/A"), orDefault(g.InternalID, "N/A"))
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
