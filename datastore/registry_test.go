package datastore

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/ormgen"
)

// stubStore is a DataStore that records Close calls.
type stubStore struct {
	kind     Kind
	closed   int
	closeErr error
}

func (s *stubStore) Kind() Kind                                           { return s.kind }
func (s *stubStore) Params() Params                                       { return Params{} }
func (s *stubStore) Connect(context.Context) error                        { return nil }
func (s *stubStore) Close() error                                         { s.closed++; return s.closeErr }
func (s *stubStore) Schema() string                                       { return "main" }
func (s *stubStore) Tables(context.Context) ([]string, error)             { return []string{}, nil }
func (s *stubStore) Relation(_ context.Context, t string) (string, error) { return t, nil }
func (s *stubStore) PrimaryKey(context.Context, string) ([]string, error) {
	return []string{"id"}, nil
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	dev := Params{Host: "db-dev", User: "dba_user", Password: "foo", Database: "catalog"}
	local := Params{Path: "catalog.db"}

	s, err := r.Register("dev", KindMySQL, dev)
	require.NoError(t, err)
	assert.Equal(t, KindMySQL, s.Kind())
	_, err = r.Register("local", KindSQLite, local)
	require.NoError(t, err)

	got, err := r.Get("dev")
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, dev, got.Params())

	got, err = r.Get("local")
	require.NoError(t, err)
	assert.Equal(t, KindSQLite, got.Kind())
	assert.Equal(t, local, got.Params())

	assert.Equal(t, []string{"dev", "local"}, r.Names())
	assert.Equal(t, 2, r.Len())
}

func TestRegistryGet(t *testing.T) {
	t.Run("empty registry", func(t *testing.T) {
		r := NewRegistry()
		_, err := r.Get("")
		require.Error(t, err)
		assert.True(t, ormgen.IsLookupError(err))
		assert.Equal(t, "ormgen: no default data store registered", err.Error())
	})

	t.Run("default is first registered", func(t *testing.T) {
		r := NewRegistry()
		first := &stubStore{kind: KindSQLite}
		require.NoError(t, r.Add("first", first))
		require.NoError(t, r.Add("second", &stubStore{kind: KindMySQL}))

		got, err := r.Get("")
		require.NoError(t, err)
		assert.Same(t, first, got)
	})

	t.Run("unknown name", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Add("dev", &stubStore{kind: KindMySQL}))
		_, err := r.Get("prod")
		var le *ormgen.LookupError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, "prod", le.Name)
		assert.ErrorIs(t, err, ormgen.ErrLookup)
	})
}

func TestRegistryDuplicates(t *testing.T) {
	t.Run("rejected by default", func(t *testing.T) {
		r := NewRegistry()
		first := &stubStore{kind: KindSQLite}
		require.NoError(t, r.Add("dev", first))

		err := r.Add("dev", &stubStore{kind: KindMySQL})
		require.Error(t, err)
		assert.True(t, ormgen.IsConfigError(err))

		_, err = r.Register("dev", KindSQLite, Params{Path: "other.db"})
		require.Error(t, err)

		got, err := r.Get("dev")
		require.NoError(t, err)
		assert.Same(t, first, got)
		assert.Zero(t, first.closed)
	})

	t.Run("overwrite closes previous", func(t *testing.T) {
		r := NewRegistry(WithDuplicatePolicy(OverwriteDuplicates))
		first := &stubStore{kind: KindSQLite}
		second := &stubStore{kind: KindMySQL}
		require.NoError(t, r.Add("dev", first))
		require.NoError(t, r.Add("dev", second))

		got, err := r.Get("dev")
		require.NoError(t, err)
		assert.Same(t, second, got)
		assert.Equal(t, 1, first.closed)
		assert.Equal(t, []string{"dev"}, r.Names())
	})

	t.Run("overwrite keeps new store when close fails", func(t *testing.T) {
		r := NewRegistry(WithDuplicatePolicy(OverwriteDuplicates), WithRegistryLogger(slog.New(slog.DiscardHandler)))
		first := &stubStore{kind: KindSQLite, closeErr: errors.New("close failed")}
		require.NoError(t, r.Add("x", first))

		s, err := r.Register("x", KindSQLite, Params{Path: "x.db"})
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, 1, first.closed)

		got, err := r.Get("x")
		require.NoError(t, err)
		assert.Same(t, s, got)
		assert.Equal(t, 1, r.Len())
	})
}

func TestRegistryInvalid(t *testing.T) {
	r := NewRegistry()

	_, err := r.Register("", KindSQLite, Params{Path: "x.db"})
	assert.True(t, ormgen.IsConfigError(err))

	_, err = r.Register("dev", KindInvalid, Params{Path: "x.db"})
	assert.True(t, ormgen.IsConfigError(err))

	_, err = r.Register("dev", KindMySQL, Params{Host: "h"})
	assert.True(t, ormgen.IsConfigError(err))

	assert.True(t, ormgen.IsConfigError(r.Add("dev", nil)))
	assert.Zero(t, r.Len())
}

func TestRegistryClose(t *testing.T) {
	r := NewRegistry()
	a := &stubStore{kind: KindSQLite, closeErr: errors.New("a failed")}
	b := &stubStore{kind: KindMySQL}
	c := &stubStore{kind: KindPostgres, closeErr: errors.New("c failed")}
	require.NoError(t, r.Add("a", a))
	require.NoError(t, r.Add("b", b))
	require.NoError(t, r.Add("c", c))

	err := r.Close()
	require.Error(t, err)
	assert.ErrorIs(t, err, a.closeErr)
	assert.ErrorIs(t, err, c.closeErr)
	assert.Equal(t, 1, a.closed)
	assert.Equal(t, 1, b.closed)
	assert.Equal(t, 1, c.closed)
}
