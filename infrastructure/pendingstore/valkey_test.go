package pendingstore

import (
	"context"
	"errors"
	"testing"

	"github.com/AzielCF/wap-gatekeeper/config"
	domainAccess "github.com/AzielCF/wap-gatekeeper/domains/access"
	"github.com/AzielCF/wap-gatekeeper/infrastructure/valkey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go/mock"
	"go.uber.org/mock/gomock"
)

const usersKey = "gatekeeper:pending:user"

func newValkeyUserStore(t *testing.T) (*ValkeyStore[domainAccess.UserEntry], *mock.Client) {
	t.Helper()
	inner := mock.NewClient(gomock.NewController(t))
	client := valkey.Wrap(inner, "gatekeeper")
	return NewValkeyStore[domainAccess.UserEntry](client, usersKey, "pending_users"), inner
}

func TestValkeyStore_ReadMissingKeyIsEmpty(t *testing.T) {
	store, inner := newValkeyUserStore(t)
	inner.EXPECT().Do(gomock.Any(), mock.Match("GET", usersKey)).Return(mock.Result(mock.ValkeyNil()))

	entries, err := store.Read(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestValkeyStore_ReadDecodesBlob(t *testing.T) {
	store, inner := newValkeyUserStore(t)
	blob := "pending_users:\n- name: A\n  uuid: u1\n- name: B\n  uuid: u2\n"
	inner.EXPECT().Do(gomock.Any(), mock.Match("GET", usersKey)).Return(mock.Result(mock.ValkeyBlobString(blob)))

	entries, err := store.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "u1", entries[0].UUID)
	assert.Equal(t, "u2", entries[1].UUID)
}

func TestValkeyStore_ReadError(t *testing.T) {
	store, inner := newValkeyUserStore(t)
	inner.EXPECT().Do(gomock.Any(), mock.Match("GET", usersKey)).Return(mock.ErrorResult(errors.New("connection reset")))

	_, err := store.Read(context.Background())
	assert.ErrorContains(t, err, "connection reset")
}

func TestValkeyStore_WriteOverwritesKey(t *testing.T) {
	ctx := context.Background()
	store, inner := newValkeyUserStore(t)

	first, err := encodeQueue([]domainAccess.UserEntry{{Name: "A", UUID: "u1"}}, "pending_users")
	require.NoError(t, err)
	second, err := encodeQueue([]domainAccess.UserEntry{{Name: "B", UUID: "u2"}}, "pending_users")
	require.NoError(t, err)

	gomock.InOrder(
		inner.EXPECT().Do(gomock.Any(), mock.Match("SET", usersKey, string(first))).Return(mock.Result(mock.ValkeyString("OK"))),
		inner.EXPECT().Do(gomock.Any(), mock.Match("SET", usersKey, string(second))).Return(mock.Result(mock.ValkeyString("OK"))),
		inner.EXPECT().Do(gomock.Any(), mock.Match("GET", usersKey)).Return(mock.Result(mock.ValkeyBlobString(string(second)))),
	)

	require.NoError(t, store.Write(ctx, []domainAccess.UserEntry{{Name: "A", UUID: "u1"}}))
	require.NoError(t, store.Write(ctx, []domainAccess.UserEntry{{Name: "B", UUID: "u2"}}))

	entries, err := store.Read(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "u2", entries[0].UUID)
}

func TestValkeyStore_TruncateMissingKey(t *testing.T) {
	store, inner := newValkeyUserStore(t)
	inner.EXPECT().Do(gomock.Any(), mock.Match("EXISTS", usersKey)).Return(mock.Result(mock.ValkeyInt64(0)))

	outcome, err := store.Truncate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domainAccess.TruncateNothingToClear, outcome)
}

func TestValkeyStore_TruncateExistingKeyWritesEmptyQueue(t *testing.T) {
	store, inner := newValkeyUserStore(t)
	empty, err := encodeQueue[domainAccess.UserEntry](nil, "pending_users")
	require.NoError(t, err)

	gomock.InOrder(
		inner.EXPECT().Do(gomock.Any(), mock.Match("EXISTS", usersKey)).Return(mock.Result(mock.ValkeyInt64(1))),
		inner.EXPECT().Do(gomock.Any(), mock.Match("SET", usersKey, string(empty))).Return(mock.Result(mock.ValkeyString("OK"))),
	)

	outcome, err := store.Truncate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domainAccess.TruncateCleared, outcome)
}

func TestValkeyFactory_KeysByDomain(t *testing.T) {
	inner := mock.NewClient(gomock.NewController(t))
	factory := ValkeyFactory[domainAccess.GroupEntry](valkey.Wrap(inner, "gatekeeper"))

	store, err := factory(config.NewDocument(), domainAccess.Groups)
	require.NoError(t, err)
	assert.Equal(t, "gatekeeper:pending:group", store.(*ValkeyStore[domainAccess.GroupEntry]).key)
}
