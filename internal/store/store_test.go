package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goodhealth/m/domain"
	"goodhealth/m/internal/database"
	"goodhealth/m/internal/migrations"
	"goodhealth/m/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "medicines.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(db))
	return store.New(db)
}

func sampleRecords() []domain.Medicine {
	return []domain.Medicine{
		domain.NewMedicine(1, "Paracetamol", "Acme", "2025, 01, 01", "2027, 01, 01",
			domain.KindTablet, 100, decimal.NewFromFloat(2.5)),
		domain.NewMedicine(2, "Cough Syrup", "", "2025, 06, 15", "2026, 06, 15",
			domain.KindSyrup, 40, decimal.NewFromFloat(12.75)),
	}
}

func TestLoadEmptyStore(t *testing.T) {
	s := newTestStore(t)

	records, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := sampleRecords()
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Name, got[i].Name)
		assert.Equal(t, want[i].Brand, got[i].Brand)
		assert.Equal(t, want[i].ManufacturingDate, got[i].ManufacturingDate)
		assert.Equal(t, want[i].ExpiryDate, got[i].ExpiryDate)
		assert.Equal(t, want[i].Kind, got[i].Kind)
		assert.Equal(t, want[i].Quantity, got[i].Quantity)
		assert.True(t, want[i].UnitPrice.Equal(got[i].UnitPrice))
		assert.True(t, want[i].Amount.Equal(got[i].Amount))
	}

	// Saving what was loaded must not change anything.
	require.NoError(t, s.Save(ctx, got))
	again, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestSaveReplacesFullCollection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleRecords()))
	require.NoError(t, s.Save(ctx, sampleRecords()[:1]))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Paracetamol", got[0].Name)
}

func TestLoadOrdersByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	records := sampleRecords()
	records[0], records[1] = records[1], records[0]
	require.NoError(t, s.Save(ctx, records))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(2), got[1].ID)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "medicines.db")
	require.NoError(t, os.WriteFile(path, []byte("this is not a database"), 0o644))

	db, err := database.Open(path)
	if err != nil {
		// Some driver versions already refuse the handle at connect time;
		// either way the data is unreadable.
		return
	}
	defer db.Close()

	s := store.New(db)
	_, err = s.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCorruptStorage), "got %v", err)
}

func TestLoadCancelledContextIsNotCorrupt(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(context.Background(), sampleRecords()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Load(ctx)
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrCorruptStorage),
		"a cancelled context says nothing about the data, got %v", err)
}

func TestLoadUndecodableRowIsCorrupt(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "medicines.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, migrations.Run(db))

	_, err = db.Exec(`INSERT INTO medicines (id, name, brand, manufacturing_date, expiry_date, kind, quantity, unit_price, amount)
        VALUES (1, 'Paracetamol', '', '2025, 01, 01', '2027, 01, 01', 1, 100, 'not-a-price', '0')`)
	require.NoError(t, err)

	_, err = store.New(db).Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCorruptStorage)
}

func TestNextID(t *testing.T) {
	assert.Equal(t, int64(1), store.NextID(nil))
	assert.Equal(t, int64(3), store.NextID(sampleRecords()))

	// Deleting the highest id does not recycle it for the remaining max.
	records := sampleRecords()[:1]
	records[0].ID = 7
	assert.Equal(t, int64(8), store.NextID(records))
}
