package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/AzielCF/wap-gatekeeper/config"
	domainAccess "github.com/AzielCF/wap-gatekeeper/domains/access"
	"github.com/sirupsen/logrus"
)

type commandKind int

const (
	cmdPending commandKind = iota
	cmdApprove
	cmdRemove
	cmdTruncate
	cmdAllowed
	cmdHelp
)

type command struct {
	kind   commandKind
	domain domainAccess.Domain
}

// Group commands carry a "g" prefix.
var commands = map[string]command{
	"pending":   {cmdPending, domainAccess.DomainUser},
	"approve":   {cmdApprove, domainAccess.DomainUser},
	"remove":    {cmdRemove, domainAccess.DomainUser},
	"truncate":  {cmdTruncate, domainAccess.DomainUser},
	"allowed":   {cmdAllowed, domainAccess.DomainUser},
	"gpending":  {cmdPending, domainAccess.DomainGroup},
	"gapprove":  {cmdApprove, domainAccess.DomainGroup},
	"gremove":   {cmdRemove, domainAccess.DomainGroup},
	"gtruncate": {cmdTruncate, domainAccess.DomainGroup},
	"gallowed":  {cmdAllowed, domainAccess.DomainGroup},
	"help":      {kind: cmdHelp},
}

// Dispatcher turns operator chat messages into engine calls and keeps the
// document returned by the last transition.
type Dispatcher struct {
	access domainAccess.IAccessUsecase
	prefix string

	mu  sync.Mutex
	doc *config.Document
}

func NewDispatcher(access domainAccess.IAccessUsecase, doc *config.Document, prefix string) *Dispatcher {
	if prefix == "" {
		prefix = "!"
	}
	return &Dispatcher{access: access, prefix: prefix, doc: doc}
}

// Document returns the configuration as of the last handled command.
func (d *Dispatcher) Document() *config.Document {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc
}

// Handle runs one command. handled is false when text is not addressed to
// the dispatcher at all, so the caller can pass it on.
func (d *Dispatcher) Handle(ctx context.Context, text string) (reply string, handled bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, d.prefix) {
		return "", false
	}

	fields := strings.Fields(strings.TrimPrefix(text, d.prefix))
	if len(fields) == 0 {
		return "", false
	}
	name := strings.ToLower(fields[0])
	args := fields[1:]

	cmd, ok := commands[name]
	if !ok {
		return fmt.Sprintf("❓ Unknown command: %s%s. Send %shelp for the list.", d.prefix, name, d.prefix), true
	}

	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("[DISPATCH] Recovered from panic in %s: %v", name, r)
			reply, handled = fmt.Sprintf("❗ Internal error while running %s%s.", d.prefix, name), true
		}
	}()

	d.mu.Lock()
	defer d.mu.Unlock()

	logrus.WithField("command", name).Debug("[DISPATCH] Handling command")

	switch cmd.kind {
	case cmdHelp:
		return d.help(), true
	case cmdPending:
		return d.access.ListPending(ctx, cmd.domain, d.doc), true
	case cmdAllowed:
		return d.access.ListAllowed(ctx, cmd.domain, d.doc), true
	case cmdTruncate:
		return d.apply(d.access.Truncate(ctx, cmd.domain, d.doc)), true
	case cmdApprove:
		if len(args) == 0 {
			return fmt.Sprintf("❌ Usage: %s%s <number>", d.prefix, name), true
		}
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Sprintf("❌ Invalid index: %s. Please send a number.", args[0]), true
		}
		return d.apply(d.access.Approve(ctx, cmd.domain, index, d.doc)), true
	case cmdRemove:
		if len(args) == 0 {
			return fmt.Sprintf("❌ Usage: %s%s <id>", d.prefix, name), true
		}
		return d.apply(d.access.Remove(ctx, cmd.domain, strings.Join(args, " "), d.doc)), true
	}
	return "", false
}

// apply keeps the document a transition ended with. Callers hold d.mu.
func (d *Dispatcher) apply(res domainAccess.Result) string {
	if res.Document != nil {
		d.doc = res.Document
	}
	if res.Err != nil {
		logrus.WithError(res.Err).WithField("outcome", res.Outcome).Debug("[DISPATCH] Command did not apply")
	}
	return res.Message
}

func (d *Dispatcher) help() string {
	p := d.prefix
	return strings.Join([]string{
		"📋 Available commands:",
		p + "pending - list pending users",
		p + "approve <n> - approve pending user number n",
		p + "remove <uuid> - remove an allowed user",
		p + "truncate - clear the pending users list",
		p + "allowed - list allowed users",
		p + "gpending - list pending groups",
		p + "gapprove <n> - approve pending group number n",
		p + "gremove <id> - remove an allowed group",
		p + "gtruncate - clear the pending groups list",
		p + "gallowed - list allowed groups",
	}, "\n")
}
