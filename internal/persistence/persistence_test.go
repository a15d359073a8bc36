package persistence

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/markusressel/therm2go/internal/control_loop"
	"github.com/markusressel/therm2go/internal/pid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

func createStatus() control_loop.Status {
	return control_loop.Status{
		ID:          "thermostat",
		Cycles:      42,
		Failures:    1,
		Saturations: 3,
		LastSample:  pid.Sample{Measured: 20.5, Target: 22},
		LastCommand: pid.Command{Value: 12.5, P: 10, I: 2.5},
		HasCommand:  true,
		LastCycle:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		LastDt:      100 * time.Millisecond,
	}
}

func TestPersistence_SaveAndLoadControllerRecord(t *testing.T) {
	// GIVEN
	dbPath := filepath.Join(t.TempDir(), "test.db")
	p := NewPersistence(dbPath)
	status := createStatus()

	// WHEN
	err := p.SaveControllerRecord(status)
	require.NoError(t, err)
	record, err := p.LoadControllerRecord(status.ID)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, status, record.Status)
	assert.False(t, record.SavedAt.IsZero())
}

func TestPersistence_LoadControllerRecordMissing(t *testing.T) {
	// GIVEN
	p := NewPersistence(filepath.Join(t.TempDir(), "test.db"))

	// WHEN
	_, err := p.LoadControllerRecord("thermostat")

	// THEN
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPersistence_DeleteControllerRecord(t *testing.T) {
	// GIVEN
	p := NewPersistence(filepath.Join(t.TempDir(), "test.db"))
	status := createStatus()
	require.NoError(t, p.SaveControllerRecord(status))

	// WHEN
	err := p.DeleteControllerRecord(status.ID)
	assert.NoError(t, err)

	// THEN
	_, err = p.LoadControllerRecord(status.ID)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPersistence_CorruptRecordIsDeleted(t *testing.T) {
	// GIVEN
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := bolt.Open(dbPath, 0600, nil)
	require.NoError(t, err)
	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(BucketControllers))
		if err != nil {
			return err
		}
		return b.Put([]byte("thermostat"), []byte("{not json"))
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())
	p := NewPersistence(dbPath)

	// WHEN
	_, err = p.LoadControllerRecord("thermostat")

	// THEN
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPersistence_Init(t *testing.T) {
	// GIVEN
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")
	p := NewPersistence(dbPath)

	// WHEN
	err := p.Init()

	// THEN
	require.NoError(t, err)
	_, err = os.Stat(filepath.Dir(dbPath))
	assert.NoError(t, err)
}
