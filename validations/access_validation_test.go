package validations

import (
	"context"
	"errors"
	"testing"

	domainAccess "github.com/AzielCF/wap-gatekeeper/domains/access"
	pkgError "github.com/AzielCF/wap-gatekeeper/pkg/error"
	"github.com/stretchr/testify/assert"
)

func TestValidateApproveIndex(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name  string
		index int
		size  int
		ok    bool
	}{
		{"first", 1, 3, true},
		{"last", 3, 3, true},
		{"zero", 0, 3, false},
		{"past end", 4, 3, false},
		{"negative", -1, 3, false},
		{"empty queue", 1, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateApproveIndex(ctx, tc.index, tc.size)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			var validationErr pkgError.ValidationError
			assert.True(t, errors.As(err, &validationErr))
		})
	}
}

func TestValidateIdentityKey(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, ValidateIdentityKey(ctx, "u-1"))
	assert.Error(t, ValidateIdentityKey(ctx, ""))
	assert.Error(t, ValidateIdentityKey(ctx, "   "))
}

func TestValidateEntries(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, ValidateUserEntry(ctx, domainAccess.UserEntry{UUID: "u1"}))
	assert.Error(t, ValidateUserEntry(ctx, domainAccess.UserEntry{Name: "no uuid"}))
	assert.NoError(t, ValidateGroupEntry(ctx, domainAccess.GroupEntry{InternalID: "g1"}))
	assert.Error(t, ValidateGroupEntry(ctx, domainAccess.GroupEntry{ID: "100"}))
}
