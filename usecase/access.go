package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/AzielCF/wap-gatekeeper/config"
	domainAccess "github.com/AzielCF/wap-gatekeeper/domains/access"
	pkgError "github.com/AzielCF/wap-gatekeeper/pkg/error"
	"github.com/AzielCF/wap-gatekeeper/pkg/filelock"
	"github.com/AzielCF/wap-gatekeeper/validations"
	"github.com/sirupsen/logrus"
)

// lane is the domain-independent view of a pipeline.
type lane interface {
	listPending(ctx context.Context, doc *config.Document) string
	listAllowed(doc *config.Document) string
	approve(ctx context.Context, index int, doc *config.Document) domainAccess.Result
	remove(ctx context.Context, key string, doc *config.Document) domainAccess.Result
	truncate(ctx context.Context, doc *config.Document) domainAccess.Result
	pendingEntries(ctx context.Context, doc *config.Document) ([]domainAccess.Entry, error)
	allowedEntries(doc *config.Document) ([]domainAccess.Entry, error)
	isAllowed(doc *config.Document, key string) bool
}

type AccessOptions struct {
	// ConfigPath is where approved and removed entries are saved.
	ConfigPath  string
	Documents   domainAccess.IDocumentStore
	UserStores  domainAccess.PendingStoreFactory[domainAccess.UserEntry]
	GroupStores domainAccess.PendingStoreFactory[domainAccess.GroupEntry]
	// LockPath defaults to ConfigPath + ".lock". Set DisableFileLock to skip
	// the cross-process lock entirely.
	LockPath        string
	DisableFileLock bool
}

type serviceAccess struct {
	mu       sync.Mutex
	lockPath string
	users    *pipeline[domainAccess.UserEntry]
	groups   *pipeline[domainAccess.GroupEntry]
}

func NewAccessService(opts AccessOptions) domainAccess.IAccessUsecase {
	lockPath := opts.LockPath
	if lockPath == "" && opts.ConfigPath != "" {
		lockPath = opts.ConfigPath + ".lock"
	}
	if opts.DisableFileLock {
		lockPath = ""
	}

	return &serviceAccess{
		lockPath: lockPath,
		users: &pipeline[domainAccess.UserEntry]{
			desc:       domainAccess.Users,
			stores:     opts.UserStores,
			documents:  opts.Documents,
			configPath: opts.ConfigPath,
		},
		groups: &pipeline[domainAccess.GroupEntry]{
			desc:       domainAccess.Groups,
			stores:     opts.GroupStores,
			documents:  opts.Documents,
			configPath: opts.ConfigPath,
		},
	}
}

func (service *serviceAccess) lane(domain domainAccess.Domain) (lane, bool) {
	switch domain {
	case domainAccess.DomainUser:
		return service.users, true
	case domainAccess.DomainGroup:
		return service.groups, true
	}
	return nil, false
}

// exclusive runs fn with the in-process mutex held and, for mutations, the
// advisory file lock shared with other processes.
func (service *serviceAccess) exclusive(mutation bool, fn func()) error {
	service.mu.Lock()
	defer service.mu.Unlock()

	if mutation && service.lockPath != "" {
		lock, err := filelock.Acquire(service.lockPath)
		if err != nil {
			logrus.WithError(err).Error("[ACCESS] Failed to acquire store lock")
			return err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logrus.WithError(err).Warn("[ACCESS] Failed to release store lock")
			}
		}()
	}

	fn()
	return nil
}

func unknownDomain(domain domainAccess.Domain) string {
	return fmt.Sprintf("❌ Unknown domain: %s", domain)
}

const noDocumentMessage = "❗ No configuration loaded."

func (service *serviceAccess) ListPending(ctx context.Context, domain domainAccess.Domain, doc *config.Document) string {
	l, ok := service.lane(domain)
	if !ok {
		return unknownDomain(domain)
	}
	if doc == nil {
		return noDocumentMessage
	}

	var msg string
	if err := service.exclusive(false, func() { msg = l.listPending(ctx, doc) }); err != nil {
		return fmt.Sprintf("❗ Error acquiring lock: %v", err)
	}
	return msg
}

func (service *serviceAccess) ListAllowed(_ context.Context, domain domainAccess.Domain, doc *config.Document) string {
	l, ok := service.lane(domain)
	if !ok {
		return unknownDomain(domain)
	}
	if doc == nil {
		return noDocumentMessage
	}
	return l.listAllowed(doc)
}

func (service *serviceAccess) Approve(ctx context.Context, domain domainAccess.Domain, index int, doc *config.Document) domainAccess.Result {
	l, ok := service.lane(domain)
	if !ok {
		return invalidResult(unknownDomain(domain), doc)
	}
	if doc == nil {
		return invalidResult(noDocumentMessage, doc)
	}

	var res domainAccess.Result
	if err := service.exclusive(true, func() { res = l.approve(ctx, index, doc) }); err != nil {
		return lockFailed(err, doc)
	}
	return res
}

func (service *serviceAccess) Remove(ctx context.Context, domain domainAccess.Domain, key string, doc *config.Document) domainAccess.Result {
	l, ok := service.lane(domain)
	if !ok {
		return invalidResult(unknownDomain(domain), doc)
	}
	if doc == nil {
		return invalidResult(noDocumentMessage, doc)
	}

	var res domainAccess.Result
	if err := service.exclusive(true, func() { res = l.remove(ctx, key, doc) }); err != nil {
		return lockFailed(err, doc)
	}
	return res
}

func (service *serviceAccess) Truncate(ctx context.Context, domain domainAccess.Domain, doc *config.Document) domainAccess.Result {
	l, ok := service.lane(domain)
	if !ok {
		return invalidResult(unknownDomain(domain), doc)
	}
	if doc == nil {
		return invalidResult(noDocumentMessage, doc)
	}

	var res domainAccess.Result
	if err := service.exclusive(true, func() { res = l.truncate(ctx, doc) }); err != nil {
		return lockFailed(err, doc)
	}
	return res
}

func invalidResult(message string, doc *config.Document) domainAccess.Result {
	return domainAccess.Result{
		Message:  message,
		Document: doc,
		Outcome:  domainAccess.OutcomeInvalid,
		Err:      pkgError.ValidationError(message),
	}
}

func lockFailed(err error, doc *config.Document) domainAccess.Result {
	return domainAccess.Result{
		Message:  fmt.Sprintf("❗ Error acquiring lock: %v", err),
		Document: doc,
		Outcome:  domainAccess.OutcomeFailed,
		Err:      pkgError.IOError(err.Error()),
	}
}

func (service *serviceAccess) PendingEntries(ctx context.Context, domain domainAccess.Domain, doc *config.Document) ([]domainAccess.Entry, error) {
	l, ok := service.lane(domain)
	if !ok {
		return nil, fmt.Errorf("unknown domain %q", domain)
	}
	if doc == nil {
		return nil, fmt.Errorf("no configuration loaded")
	}
	var (
		entries []domainAccess.Entry
		err     error
	)
	if lockErr := service.exclusive(false, func() { entries, err = l.pendingEntries(ctx, doc) }); lockErr != nil {
		return nil, lockErr
	}
	return entries, err
}

func (service *serviceAccess) AllowedEntries(_ context.Context, domain domainAccess.Domain, doc *config.Document) ([]domainAccess.Entry, error) {
	l, ok := service.lane(domain)
	if !ok {
		return nil, fmt.Errorf("unknown domain %q", domain)
	}
	if doc == nil {
		return nil, fmt.Errorf("no configuration loaded")
	}
	return l.allowedEntries(doc)
}

func (service *serviceAccess) IsAllowed(_ context.Context, domain domainAccess.Domain, key string, doc *config.Document) bool {
	l, ok := service.lane(domain)
	if !ok || doc == nil {
		return false
	}
	return l.isAllowed(doc, key)
}

func (service *serviceAccess) SubmitUser(ctx context.Context, entry domainAccess.UserEntry, doc *config.Document) (domainAccess.SubmitOutcome, error) {
	if err := validations.ValidateUserEntry(ctx, entry); err != nil {
		return "", err
	}
	if doc == nil {
		return "", fmt.Errorf("no configuration loaded")
	}

	var (
		outcome domainAccess.SubmitOutcome
		err     error
	)
	if lockErr := service.exclusive(true, func() { outcome, err = service.users.submit(ctx, entry, doc, nil) }); lockErr != nil {
		return "", lockErr
	}
	return outcome, err
}

func groupLocked(doc *config.Document) bool {
	return doc.Bool(domainAccess.GroupLockKey)
}

// SubmitGroup refuses new groups while group_lock is set.
func (service *serviceAccess) SubmitGroup(ctx context.Context, entry domainAccess.GroupEntry, doc *config.Document) (domainAccess.SubmitOutcome, error) {
	if err := validations.ValidateGroupEntry(ctx, entry); err != nil {
		return "", err
	}
	if doc == nil {
		return "", fmt.Errorf("no configuration loaded")
	}
	var (
		outcome domainAccess.SubmitOutcome
		err     error
	)
	if lockErr := service.exclusive(true, func() { outcome, err = service.groups.submit(ctx, entry, doc, groupLocked) }); lockErr != nil {
		return "", lockErr
	}
	return outcome, err
}
