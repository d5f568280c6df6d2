package factory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/halver/corebridge/internal/journal"
	"github.com/halver/corebridge/internal/journal/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteFromBarePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "j.db")
	sink, err := NewSinkFromDSN(path)
	require.NoError(t, err)
	s, ok := sink.(*sqlite.Sink)
	require.True(t, ok)
	defer func() { _ = s.Close() }()

	require.NoError(t, sink.Send(context.Background(), journal.Event{Type: journal.EventServiceStart}))
}

func TestSQLiteFromSchemeDSN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "j.db")
	sink, err := NewSinkFromDSN("sqlite://" + path)
	require.NoError(t, err)
	s, ok := sink.(*sqlite.Sink)
	require.True(t, ok)
	_ = s.Close()
}

func TestEmptyDSNRejected(t *testing.T) {
	_, err := NewSinkFromDSN("")
	require.Error(t, err)
	_, err = NewSinkFromDSN("   ")
	require.Error(t, err)
}

func TestUnsupportedSchemeRejected(t *testing.T) {
	_, err := NewSinkFromDSN("mysql://root@localhost/db")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported DSN")
}

func TestClickHouseDSNRequiresHost(t *testing.T) {
	_, err := NewSinkFromDSN("clickhouse://")
	require.Error(t, err)
}
