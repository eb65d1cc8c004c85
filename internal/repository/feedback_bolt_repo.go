package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"support-chat/internal/domain"
)

var feedbackBucket = []byte("feedback")

// BoltFeedbackRepository guarda el feedback en un archivo BoltDB local, clave = id.
type BoltFeedbackRepository struct {
	db *bolt.DB
}

// OpenBoltFeedbackRepository abre (o crea) el archivo y el bucket.
func OpenBoltFeedbackRepository(path string) (*BoltFeedbackRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, e := tx.CreateBucketIfNotExists(feedbackBucket)
		return e
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltFeedbackRepository{db: db}, nil
}

func (r *BoltFeedbackRepository) Create(_ context.Context, fb domain.Feedback) error {
	payload, err := json.Marshal(fb)
	if err != nil {
		return fmt.Errorf("marshal feedback: %w", err)
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(feedbackBucket).Put([]byte(fb.ID), payload)
	})
}

// All devuelve todo el feedback guardado, ordenado por id.
func (r *BoltFeedbackRepository) All() ([]domain.Feedback, error) {
	var out []domain.Feedback
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(feedbackBucket).ForEach(func(k, v []byte) error {
			var fb domain.Feedback
			if e := json.Unmarshal(v, &fb); e != nil {
				// entradas corruptas se saltean
				return nil
			}
			out = append(out, fb)
			return nil
		})
	})
	return out, err
}

func (r *BoltFeedbackRepository) Close() error {
	return r.db.Close()
}
