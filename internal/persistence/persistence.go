package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/markusressel/therm2go/internal/control_loop"
	"github.com/markusressel/therm2go/internal/ui"
	bolt "go.etcd.io/bbolt"
)

const (
	BucketControllers = "controllers"
)

// ControllerRecord is the persisted snapshot of a controller
type ControllerRecord struct {
	Status  control_loop.Status `json:"status"`
	SavedAt time.Time           `json:"savedAt"`
}

type Persistence interface {
	Init() error

	LoadControllerRecord(controllerId string) (ControllerRecord, error)
	SaveControllerRecord(status control_loop.Status) (err error)
	DeleteControllerRecord(controllerId string) (err error)
}

type persistence struct {
	dbPath string
	now    func() time.Time
}

func NewPersistence(dbPath string) Persistence {
	p := &persistence{
		dbPath: dbPath,
		now:    time.Now,
	}
	return p
}

func (p persistence) Init() (err error) {
	// get parent path of dbPath
	parentDir := filepath.Dir(p.dbPath)
	_, err = os.Stat(parentDir)
	if errors.Is(err, os.ErrNotExist) {
		// create directory
		ui.Info("Creating directory for db: %s", parentDir)
		err = os.MkdirAll(parentDir, 0755)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p persistence) openPersistence() (db *bolt.DB, err error) {
	db, err = bolt.Open(p.dbPath, 0600, &bolt.Options{Timeout: 1 * time.Minute})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// SaveControllerRecord saves the given controller status to persistence
func (p persistence) SaveControllerRecord(status control_loop.Status) (err error) {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	data, err := json.Marshal(ControllerRecord{
		Status:  status,
		SavedAt: p.now(),
	})
	if err != nil {
		return err
	}

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(BucketControllers))
		if err != nil {
			return fmt.Errorf("create bucket: %s", err)
		}
		return b.Put([]byte(status.ID), data)
	})
}

// LoadControllerRecord loads the last saved status of the given controller
func (p persistence) LoadControllerRecord(controllerId string) (ControllerRecord, error) {
	var record ControllerRecord

	db, err := p.openPersistence()
	if err != nil {
		return record, err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	corrupt := false
	err = db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketControllers))
		if b == nil {
			return os.ErrNotExist
		}
		v := b.Get([]byte(controllerId))
		if v == nil {
			return os.ErrNotExist
		}

		err := json.Unmarshal(v, &record)
		if err != nil {
			// if we cannot read the saved data, delete it
			ui.Warning("Unable to unmarshal saved controller data for %s: %v", controllerId, err)
			corrupt = true
			err := b.Delete([]byte(controllerId))
			if err != nil {
				ui.Error("Unable to delete corrupt data key %s: %v", controllerId, err)
			}
		}

		return nil
	})
	if err == nil && corrupt {
		return ControllerRecord{}, os.ErrNotExist
	}

	return record, err
}

func (p persistence) DeleteControllerRecord(controllerId string) error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketControllers))
		if b == nil {
			// no controller bucket yet
			return nil
		}
		v := b.Get([]byte(controllerId))
		if v == nil {
			// no data for given key
			return nil
		}

		return b.Delete([]byte(controllerId))
	})
}
