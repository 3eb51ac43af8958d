package ledger_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goodhealth/m/domain"
	"goodhealth/m/internal/ledger"
)

func TestEntriesOnMissingFile(t *testing.T) {
	l := ledger.New(filepath.Join(t.TempDir(), "sales.log"))

	entries, err := l.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAppendAndReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.log")
	l := ledger.New(path)

	first := domain.TransactionEntry{Date: "2026-08-31", Medicine: "Paracetamol", Quantity: 30, Amount: decimal.NewFromFloat(75.0)}
	second := domain.TransactionEntry{Date: "2026-08-31", Medicine: "Cough Syrup", Quantity: 2, Amount: decimal.NewFromFloat(25.5)}
	require.NoError(t, l.Append(first))
	require.NoError(t, l.Append(second))

	entries, err := l.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Paracetamol", entries[0].Medicine)
	assert.Equal(t, int64(30), entries[0].Quantity)
	assert.True(t, entries[0].Amount.Equal(decimal.NewFromFloat(75.0)))
	assert.Equal(t, "Cough Syrup", entries[1].Medicine)

	// One JSON document per line, never rewritten.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"Paracetamol"`)
}

func TestAppendNeverTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "returns.log")
	l := ledger.New(path)

	require.NoError(t, l.Append(domain.TransactionEntry{Date: "2026-08-30", Medicine: "Aspirin", Quantity: 1, Amount: decimal.NewFromInt(3)}))

	// A fresh Log on the same path keeps appending after the existing entry.
	require.NoError(t, ledger.New(path).Append(domain.TransactionEntry{Date: "2026-08-31", Medicine: "Aspirin", Quantity: 2, Amount: decimal.NewFromInt(6)}))

	entries, err := l.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2026-08-30", entries[0].Date)
	assert.Equal(t, "2026-08-31", entries[1].Date)
}

func TestEntriesCorruptLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.log")
	require.NoError(t, os.WriteFile(path, []byte("{not json}\n"), 0o644))

	_, err := ledger.New(path).Entries()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCorruptStorage)
}
