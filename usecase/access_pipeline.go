package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/AzielCF/wap-gatekeeper/config"
	domainAccess "github.com/AzielCF/wap-gatekeeper/domains/access"
	"github.com/AzielCF/wap-gatekeeper/validations"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

// pipeline is the approval state machine for one entry type. Transitions
// never mutate the document they receive: changes go to a clone that is
// saved and returned.
type pipeline[E domainAccess.Entry] struct {
	desc       domainAccess.Descriptor
	stores     domainAccess.PendingStoreFactory[E]
	documents  domainAccess.IDocumentStore
	configPath string
}

func (p *pipeline[E]) log() *logrus.Entry {
	return logrus.WithField("domain", p.desc.Domain)
}

func (p *pipeline[E]) emptyPendingMessage() string {
	return fmt.Sprintf("📭 No pending %s.", p.desc.Plural)
}

func (p *pipeline[E]) openPending(ctx context.Context, doc *config.Document) (domainAccess.IPendingStore[E], []E, error) {
	store, err := p.stores(doc, p.desc)
	if err != nil {
		return nil, nil, err
	}
	entries, err := store.Read(ctx)
	if err != nil {
		return nil, nil, err
	}
	return store, entries, nil
}

func (p *pipeline[E]) allowed(doc *config.Document) ([]E, error) {
	var entries []E
	if err := doc.Decode(p.desc.AllowedField, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (p *pipeline[E]) listPending(ctx context.Context, doc *config.Document) string {
	_, entries, err := p.openPending(ctx, doc)
	if err != nil {
		p.log().WithError(err).Error("[ACCESS] Failed to read pending queue")
		return fmt.Sprintf("❗ Error reading pending %s: %v", p.desc.Plural, err)
	}
	if len(entries) == 0 {
		return p.emptyPendingMessage()
	}

	lines := []string{fmt.Sprintf("🕒 Pending %s (%s):", p.desc.Plural, humanize.Comma(int64(len(entries))))}
	for i, entry := range entries {
		lines = append(lines, fmt.Sprintf("%d. %s\n%s", i+1, entry.DisplayName(), entry.PendingDetails()))
	}
	return strings.Join(lines, "\n")
}

func (p *pipeline[E]) listAllowed(doc *config.Document) string {
	entries, err := p.allowed(doc)
	if err != nil {
		p.log().WithError(err).Error("[ACCESS] Failed to read allowed list")
		return fmt.Sprintf("❗ Error reading allowed %s: %v", p.desc.Plural, err)
	}
	if len(entries) == 0 {
		return fmt.Sprintf("📭 No allowed %s.", p.desc.Plural)
	}

	lines := []string{fmt.Sprintf("✅ Allowed %s (%s):", p.desc.Plural, humanize.Comma(int64(len(entries))))}
	for _, entry := range entries {
		lines = append(lines, "- "+entry.Summary())
	}
	return strings.Join(lines, "\n")
}

// current returns the document as it is on disk right now. Mutations call it
// while holding the store lock so they never save over a newer version.
func (p *pipeline[E]) current(ctx context.Context, doc *config.Document) (*config.Document, error) {
	if p.documents == nil || p.configPath == "" {
		return doc, nil
	}
	return p.documents.Load(ctx, p.configPath)
}

func (p *pipeline[E]) failed(doc *config.Document, err error, format string, args ...any) domainAccess.Result {
	return domainAccess.Result{
		Message:  fmt.Sprintf(format, args...),
		Document: doc,
		Outcome:  domainAccess.OutcomeFailed,
		Err:      err,
	}
}

// approve pops the entry at the 1-based index. The shortened queue is written
// whether the entry is new or a duplicate. For a new entry the document is
// saved before the queue, never after.
func (p *pipeline[E]) approve(ctx context.Context, index int, doc *config.Document) domainAccess.Result {
	fresh, err := p.current(ctx, doc)
	if err != nil {
		p.log().WithError(err).Error("[ACCESS] Failed to reload configuration")
		return p.failed(doc, err, "❗ Error loading configuration: %v", err)
	}

	store, entries, err := p.openPending(ctx, fresh)
	if err != nil {
		p.log().WithError(err).Error("[ACCESS] Failed to read pending queue")
		return p.failed(fresh, err, "❗ Error reading pending %s: %v", p.desc.Plural, err)
	}

	if err := validations.ValidateApproveIndex(ctx, index, len(entries)); err != nil {
		return domainAccess.Result{
			Message:  fmt.Sprintf("❌ Invalid index. Please use a number between 1 and %d.", len(entries)),
			Document: fresh,
			Outcome:  domainAccess.OutcomeInvalid,
			Err:      err,
		}
	}

	entry := entries[index-1]
	remaining := slices.Delete(slices.Clone(entries), index-1, index)

	allowed, err := p.allowed(fresh)
	if err != nil {
		p.log().WithError(err).Error("[ACCESS] Failed to read allowed list")
		return p.failed(fresh, err, "❗ Error reading allowed %s: %v", p.desc.Plural, err)
	}

	if containsIdentity(allowed, entry.IdentityKey()) {
		if err := store.Write(ctx, remaining); err != nil {
			p.log().WithError(err).Error("[ACCESS] Failed to drop duplicate from pending queue")
			return p.failed(fresh, err, "❗ Error saving pending %s: %v", p.desc.Plural, err)
		}
		p.log().WithField("identity", entry.IdentityKey()).Info("[ACCESS] Discarded duplicate pending entry")
		return domainAccess.Result{
			Message:  fmt.Sprintf("⚠️ %s already approved: %s", capitalize(p.desc.Noun), entry.DisplayName()),
			Document: fresh,
			Outcome:  domainAccess.OutcomeDuplicate,
		}
	}

	next := fresh.Clone()
	if err := next.Set(p.desc.AllowedField, append(slices.Clone(allowed), entry)); err != nil {
		return p.failed(fresh, err, "❗ Error updating configuration: %v", err)
	}
	if err := p.documents.Save(ctx, next, p.configPath); err != nil {
		p.log().WithError(err).Error("[ACCESS] Failed to save configuration")
		return p.failed(fresh, err, "❗ Error saving configuration: %v", err)
	}

	if err := store.Write(ctx, remaining); err != nil {
		p.log().WithError(err).Error("[ACCESS] Approved entry but failed to update pending queue")
		return p.failed(next, err, "⚠️ Approved %s: %s, but the pending list could not be updated: %v",
			p.desc.Noun, entry.DisplayName(), err)
	}

	p.log().WithField("identity", entry.IdentityKey()).Info("[ACCESS] Approved pending entry")
	return domainAccess.Result{
		Message:  fmt.Sprintf("✅ Approved %s: %s", p.desc.Noun, entry.DisplayName()),
		Document: next,
		Outcome:  domainAccess.OutcomeApplied,
	}
}

// remove drops every allowed entry matching key. Nothing matching means no
// document write at all.
func (p *pipeline[E]) remove(ctx context.Context, key string, doc *config.Document) domainAccess.Result {
	if err := validations.ValidateIdentityKey(ctx, key); err != nil {
		return domainAccess.Result{
			Message:  fmt.Sprintf("❌ Please provide the %s of the %s to remove.", p.desc.KeyLabel, p.desc.Noun),
			Document: doc,
			Outcome:  domainAccess.OutcomeInvalid,
			Err:      err,
		}
	}
	key = strings.TrimSpace(key)

	fresh, err := p.current(ctx, doc)
	if err != nil {
		p.log().WithError(err).Error("[ACCESS] Failed to reload configuration")
		return p.failed(doc, err, "❗ Error loading configuration: %v", err)
	}

	allowed, err := p.allowed(fresh)
	if err != nil {
		p.log().WithError(err).Error("[ACCESS] Failed to read allowed list")
		return p.failed(fresh, err, "❗ Error reading allowed %s: %v", p.desc.Plural, err)
	}

	filtered := make([]E, 0, len(allowed))
	for _, entry := range allowed {
		if !entry.MatchesRemoval(key) {
			filtered = append(filtered, entry)
		}
	}
	if len(filtered) == len(allowed) {
		return domainAccess.Result{
			Message:  fmt.Sprintf("❌ No %s found with %s: %s", p.desc.Noun, p.desc.KeyLabel, key),
			Document: fresh,
			Outcome:  domainAccess.OutcomeNoop,
		}
	}

	next := fresh.Clone()
	if err := next.Set(p.desc.AllowedField, filtered); err != nil {
		return p.failed(fresh, err, "❗ Error updating configuration: %v", err)
	}
	if err := p.documents.Save(ctx, next, p.configPath); err != nil {
		p.log().WithError(err).Error("[ACCESS] Failed to save configuration")
		return p.failed(fresh, err, "❗ Error saving configuration: %v", err)
	}

	p.log().WithField("key", key).Info("[ACCESS] Removed allowed entry")
	return domainAccess.Result{
		Message:  fmt.Sprintf("🗑️ Removed %s with %s: %s", p.desc.Noun, p.desc.KeyLabel, key),
		Document: next,
		Outcome:  domainAccess.OutcomeApplied,
	}
}

func (p *pipeline[E]) truncate(ctx context.Context, doc *config.Document) domainAccess.Result {
	fresh, err := p.current(ctx, doc)
	if err != nil {
		p.log().WithError(err).Error("[ACCESS] Failed to reload configuration")
		return p.failed(doc, err, "❗ Error loading configuration: %v", err)
	}

	store, err := p.stores(fresh, p.desc)
	if err != nil {
		return p.failed(fresh, err, "❗ Error clearing pending %s: %v", p.desc.Plural, err)
	}

	outcome, err := store.Truncate(ctx)
	if err != nil {
		p.log().WithError(err).Error("[ACCESS] Failed to clear pending queue")
		return p.failed(fresh, err, "❗ Error clearing pending %s: %v", p.desc.Plural, err)
	}
	if outcome == domainAccess.TruncateNothingToClear {
		return domainAccess.Result{Message: p.emptyPendingMessage(), Document: fresh, Outcome: domainAccess.OutcomeNoop}
	}

	p.log().Info("[ACCESS] Cleared pending queue")
	return domainAccess.Result{
		Message:  fmt.Sprintf("🧹 Pending %s list has been cleared.", p.desc.Plural),
		Document: fresh,
		Outcome:  domainAccess.OutcomeApplied,
	}
}

func (p *pipeline[E]) pendingEntries(ctx context.Context, doc *config.Document) ([]domainAccess.Entry, error) {
	_, entries, err := p.openPending(ctx, doc)
	if err != nil {
		return nil, err
	}
	return toEntries(entries), nil
}

func (p *pipeline[E]) allowedEntries(doc *config.Document) ([]domainAccess.Entry, error) {
	entries, err := p.allowed(doc)
	if err != nil {
		return nil, err
	}
	return toEntries(entries), nil
}

func (p *pipeline[E]) isAllowed(doc *config.Document, key string) bool {
	if key == "" {
		return false
	}
	allowed, err := p.allowed(doc)
	if err != nil {
		p.log().WithError(err).Warn("[ACCESS] Allowed list unreadable, denying")
		return false
	}
	return containsIdentity(allowed, key)
}

// submit queues an unknown identity for review unless it is already allowed
// or already waiting. locked, when set, refuses identities that are not
// allowed yet.
func (p *pipeline[E]) submit(ctx context.Context, entry E, doc *config.Document, locked func(*config.Document) bool) (domainAccess.SubmitOutcome, error) {
	doc, err := p.current(ctx, doc)
	if err != nil {
		return "", err
	}
	if !doc.Bool(p.desc.ManagementKey) {
		return domainAccess.SubmitDisabled, nil
	}

	allowed, err := p.allowed(doc)
	if err != nil {
		return "", err
	}
	if containsIdentity(allowed, entry.IdentityKey()) {
		return domainAccess.SubmitAlreadyAllowed, nil
	}
	if locked != nil && locked(doc) {
		return domainAccess.SubmitLocked, nil
	}

	store, entries, err := p.openPending(ctx, doc)
	if err != nil {
		return "", err
	}
	if containsIdentity(entries, entry.IdentityKey()) {
		return domainAccess.SubmitAlreadyPending, nil
	}

	if err := store.Write(ctx, append(slices.Clone(entries), entry)); err != nil {
		return "", err
	}
	p.log().WithField("identity", entry.IdentityKey()).Info("[ACCESS] Queued entry for approval")
	return domainAccess.SubmitQueued, nil
}

func containsIdentity[E domainAccess.Entry](entries []E, key string) bool {
	return slices.ContainsFunc(entries, func(e E) bool { return e.IdentityKey() == key })
}

func toEntries[E domainAccess.Entry](entries []E) []domainAccess.Entry {
	out := make([]domainAccess.Entry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry)
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
