package snapshot_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phonestore/internal/encryption"
	"phonestore/internal/inventory"
	"phonestore/internal/snapshot"
	"phonestore/internal/store"
	"phonestore/internal/testutil"
	"phonestore/internal/vault"
)

type staticSource struct {
	phones []inventory.Phone
	err    error
}

func (s staticSource) List(context.Context) ([]inventory.Phone, error) { return s.phones, s.err }

func TestService_CreateAndRestore(t *testing.T) {
	ctx := context.Background()
	v := vault.NewMemoryVault("test")
	enc := encryption.NewTestEncryptor()
	require.NoError(t, enc.Setup("secret"))
	svc := snapshot.NewService(staticSource{phones: store.DefaultPhones()}, v, enc, "host-1", testutil.FixedClock(), nil)

	info, err := svc.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, "host-1/20240115T103000.000Z.json.test", info.Name)
	assert.Equal(t, 10, info.Phones)
	assert.Positive(t, info.Size)

	opener, err := enc.Unlock("secret")
	require.NoError(t, err)

	phones, err := svc.Restore(ctx, "20240115T103000.000Z.json.test", opener)
	require.NoError(t, err)
	assert.Equal(t, store.DefaultPhones(), phones)
}

func TestService_CreateAge(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := testutil.AgeConfig(dir)
	enc := encryption.NewAgeEncryptor(cfg)
	require.NoError(t, enc.Setup("hunter2"))

	v, err := vault.NewFileSystemVault("fs", dir+"/vault")
	require.NoError(t, err)
	svc := snapshot.NewService(staticSource{phones: testutil.Phones(3)}, v, enc, "host-1", testutil.FixedClock(), nil)

	info, err := svc.Create(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(info.Name, ".json.age"))

	dec, err := encryption.DecryptorFor(info.Name, cfg)
	require.NoError(t, err)
	opener, err := dec.Unlock("hunter2")
	require.NoError(t, err)

	phones, err := svc.Restore(ctx, info.Name, opener)
	require.NoError(t, err)
	assert.Equal(t, testutil.Phones(3), phones)
}

func TestService_CreateRequiresKeys(t *testing.T) {
	enc := encryption.NewAgeEncryptor(testutil.AgeConfig(t.TempDir()))
	svc := snapshot.NewService(staticSource{}, vault.NewMemoryVault("test"), enc, "h", testutil.FixedClock(), nil)

	_, err := svc.Create(context.Background())
	assert.ErrorContains(t, err, "snapshot keys")
}

func TestService_CreateSameInstant(t *testing.T) {
	ctx := context.Background()
	v := vault.NewMemoryVault("test")
	clock := testutil.FixedClock()
	svc := snapshot.NewService(staticSource{phones: testutil.Phones(1)}, v, encryption.NoneEncryptor{}, "h", clock, nil)

	first, err := svc.Create(ctx)
	require.NoError(t, err)

	_, err = svc.Create(ctx)
	assert.ErrorIs(t, err, snapshot.ErrSnapshotExists)

	clock.Advance(time.Millisecond)
	second, err := svc.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, "h/20240115T103000.000Z.json", first.Name)
	assert.Equal(t, "h/20240115T103000.001Z.json", second.Name)

	names, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{first.Name, second.Name}, names)
}

// unreachableVault fails setup validation; Put records whether it was reached.
type unreachableVault struct {
	snapshot.Vault
	putCalled bool
}

func (v *unreachableVault) ValidateSetup(context.Context) error {
	return errors.New("bucket does not exist")
}

func (v *unreachableVault) Put(ctx context.Context, name string, r io.Reader, size int64) error {
	v.putCalled = true
	return v.Vault.Put(ctx, name, r, size)
}

func TestService_CreateValidatesVault(t *testing.T) {
	v := &unreachableVault{Vault: vault.NewMemoryVault("test")}
	svc := snapshot.NewService(staticSource{phones: testutil.Phones(1)}, v, encryption.NoneEncryptor{}, "h", testutil.FixedClock(), nil)

	_, err := svc.Create(context.Background())
	assert.ErrorContains(t, err, "bucket does not exist")
	assert.False(t, v.putCalled, "Put called after failed validation")
}

func TestService_CreateSourceFailure(t *testing.T) {
	v := vault.NewMemoryVault("test")
	boom := errors.New("api down")
	svc := snapshot.NewService(staticSource{err: boom}, v, encryption.NoneEncryptor{}, "h", testutil.FixedClock(), nil)

	_, err := svc.Create(context.Background())
	assert.ErrorIs(t, err, boom)

	names, _ := v.List(context.Background(), "")
	assert.Empty(t, names)
}

func TestService_ListAndLatest(t *testing.T) {
	ctx := context.Background()
	v := vault.NewMemoryVault("test")
	clock := testutil.FixedClock()
	svc := snapshot.NewService(staticSource{phones: testutil.Phones(1)}, v, encryption.NoneEncryptor{}, "host-1", clock, nil)
	other := snapshot.NewService(staticSource{phones: testutil.Phones(1)}, v, encryption.NoneEncryptor{}, "host-2", clock, nil)

	_, err := svc.Latest(ctx)
	assert.ErrorIs(t, err, snapshot.ErrSnapshotNotFound)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx)
		require.NoError(t, err)
		clock.Advance(24 * time.Hour)
	}
	_, err = other.Create(ctx)
	require.NoError(t, err)

	names, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"host-1/20240115T103000.000Z.json",
		"host-1/20240116T103000.000Z.json",
		"host-1/20240117T103000.000Z.json",
	}, names)

	latest, err := svc.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "host-1/20240117T103000.000Z.json", latest)
}

func TestService_RestoreErrors(t *testing.T) {
	ctx := context.Background()
	v := vault.NewMemoryVault("test")
	svc := snapshot.NewService(staticSource{}, v, encryption.NoneEncryptor{}, "h", testutil.FixedClock(), nil)
	opener, _ := encryption.NoneEncryptor{}.Unlock("")

	_, err := svc.Restore(ctx, "missing.json", opener)
	assert.ErrorIs(t, err, snapshot.ErrSnapshotNotFound)

	require.NoError(t, v.Put(ctx, "h/bad.json", strings.NewReader("{"), 1))
	_, err = svc.Restore(ctx, "bad.json", opener)
	assert.ErrorContains(t, err, "opening snapshot h/bad.json")
}

func TestService_RestoreEmptyCollection(t *testing.T) {
	ctx := context.Background()
	v := vault.NewMemoryVault("test")
	svc := snapshot.NewService(staticSource{phones: []inventory.Phone{}}, v, encryption.NoneEncryptor{}, "h", testutil.FixedClock(), nil)

	info, err := svc.Create(ctx)
	require.NoError(t, err)

	opener, _ := encryption.NoneEncryptor{}.Unlock("")
	phones, err := svc.Restore(ctx, info.Name, opener)
	require.NoError(t, err)
	assert.NotNil(t, phones)
	assert.Empty(t, phones)
}
