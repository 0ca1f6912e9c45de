package access

import (
	"context"
	"fmt"
	"strings"

	"github.com/AzielCF/wap-gatekeeper/config"
)

// Domain selects one of the two approval pipelines.
type Domain string

const (
	DomainUser  Domain = "user"
	DomainGroup Domain = "group"
)

// ParseDomain accepts the singular and plural spellings used by the CLI and
// REST routes.
func ParseDomain(v string) (Domain, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "user", "users", "sender", "senders":
		return DomainUser, nil
	case "group", "groups":
		return DomainGroup, nil
	}
	return "", fmt.Errorf("unknown domain %q", v)
}

// Descriptor names everything that differs between the two pipelines apart
// from the entry type.
type Descriptor struct {
	Domain         Domain
	Noun           string // "user"
	Plural         string // "users"
	KeyLabel       string // label of the removal key in replies
	AllowedField   string // allow-list key inside the configuration document
	PendingField   string // single field of the pending file
	PendingFileKey string // configuration key holding the pending file path
	ManagementKey  string // configuration flag enabling dynamic submissions
}

var (
	Users = Descriptor{
		Domain:         DomainUser,
		Noun:           "user",
		Plural:         "users",
		KeyLabel:       "UUID",
		AllowedField:   "allowed_senders",
		PendingField:   "pending_users",
		PendingFileKey: "pending_users_file",
		ManagementKey:  "dynamic_user_management",
	}
	Groups = Descriptor{
		Domain:         DomainGroup,
		Noun:           "group",
		Plural:         "groups",
		KeyLabel:       "ID",
		AllowedField:   "allowed_groups",
		PendingField:   "pending_groups",
		PendingFileKey: "pending_groups_file",
		ManagementKey:  "dynamic_group_management",
	}
)

// GroupLockKey freezes the group allow-list: no new group submissions are queued.
const GroupLockKey = "group_lock"

// TruncateOutcome distinguishes a cleared queue from one that never existed.
type TruncateOutcome int

const (
	TruncateCleared TruncateOutcome = iota
	TruncateNothingToClear
)

// Outcome classifies a transition so callers other than the chat reply can
// tell success, no-ops and failures apart.
type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeNoop      Outcome = "noop"
	OutcomeInvalid   Outcome = "invalid"
	OutcomeFailed    Outcome = "failed"
)

// Result is what every mutating transition returns. Document is the
// configuration as of the end of the transition; Err is set for
// OutcomeInvalid and OutcomeFailed.
type Result struct {
	Message  string
	Document *config.Document
	Outcome  Outcome
	Err      error
}

// SubmitOutcome is the result of queueing an unknown identity for review.
type SubmitOutcome string

const (
	SubmitQueued         SubmitOutcome = "queued"
	SubmitAlreadyAllowed SubmitOutcome = "already_allowed"
	SubmitAlreadyPending SubmitOutcome = "already_pending"
	SubmitDisabled       SubmitOutcome = "disabled"
	SubmitLocked         SubmitOutcome = "locked"
)

// IPendingStore is the persistence contract of one pending queue. Write
// replaces the whole queue and is its only mutation path.
type IPendingStore[E Entry] interface {
	// Read returns an empty queue when the backing file or field is absent.
	Read(ctx context.Context) ([]E, error)
	Write(ctx context.Context, entries []E) error
	Truncate(ctx context.Context) (TruncateOutcome, error)
}

// PendingStoreFactory opens the pending queue a document points at.
type PendingStoreFactory[E Entry] func(doc *config.Document, d Descriptor) (IPendingStore[E], error)

// IDocumentStore persists the main configuration document.
type IDocumentStore interface {
	Load(ctx context.Context, path string) (*config.Document, error)
	Save(ctx context.Context, doc *config.Document, path string) error
}

// IAccessUsecase is the approval engine. Every transition returns a status
// message for the operator and the document that reflects it; failures are
// reported in the message, never as a panic. Mutations reload the document
// from disk under the store lock, so the document passed in only has to
// name the stores.
type IAccessUsecase interface {
	ListPending(ctx context.Context, domain Domain, doc *config.Document) string
	ListAllowed(ctx context.Context, domain Domain, doc *config.Document) string
	Approve(ctx context.Context, domain Domain, index int, doc *config.Document) Result
	Remove(ctx context.Context, domain Domain, key string, doc *config.Document) Result
	Truncate(ctx context.Context, domain Domain, doc *config.Document) Result

	PendingEntries(ctx context.Context, domain Domain, doc *config.Document) ([]Entry, error)
	AllowedEntries(ctx context.Context, domain Domain, doc *config.Document) ([]Entry, error)

	IsAllowed(ctx context.Context, domain Domain, key string, doc *config.Document) bool
	SubmitUser(ctx context.Context, entry UserEntry, doc *config.Document) (SubmitOutcome, error)
	SubmitGroup(ctx context.Context, entry GroupEntry, doc *config.Document) (SubmitOutcome, error)
}
