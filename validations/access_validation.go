package validations

import (
	"context"
	"fmt"
	"strings"

	domainAccess "github.com/AzielCF/wap-gatekeeper/domains/access"
	pkgError "github.com/AzielCF/wap-gatekeeper/pkg/error"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ValidateApproveIndex checks a 1-based position against the queue length
// observed right now.
func ValidateApproveIndex(ctx context.Context, index, size int) error {
	// Required rejects 0, which the threshold rules treat as empty and skip.
	err := validation.ValidateWithContext(ctx, index,
		validation.Required,
		validation.Min(1),
		validation.Max(size),
	)
	if err != nil {
		return pkgError.ValidationError(fmt.Sprintf("index %d must be between 1 and %d", index, size))
	}
	return nil
}

func ValidateIdentityKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	err := validation.ValidateWithContext(ctx, key,
		validation.Required,
		validation.Length(1, 256),
	)
	if err != nil {
		return pkgError.ValidationError(fmt.Sprintf("identity key: %s", err.Error()))
	}
	return nil
}

func ValidateUserEntry(ctx context.Context, entry domainAccess.UserEntry) error {
	err := validation.ValidateStructWithContext(ctx, &entry,
		validation.Field(&entry.UUID, validation.Required),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}
	return nil
}

func ValidateGroupEntry(ctx context.Context, entry domainAccess.GroupEntry) error {
	err := validation.ValidateStructWithContext(ctx, &entry,
		validation.Field(&entry.InternalID, validation.Required),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}
	return nil
}
