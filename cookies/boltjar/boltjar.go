// Package boltjar provides a cookies.Jar persisted in a BBolt database.
package boltjar

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/jrsteele09/go-auth-client/cookies"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.etcd.io/bbolt"
)

var bucketName = []byte("cookies")

// storedCookie is the on-disk form of a cookie.
type storedCookie struct {
	Value    string        `json:"value"`
	Path     string        `json:"path"`
	Expires  time.Time     `json:"expires"`
	Secure   bool          `json:"secure"`
	SameSite http.SameSite `json:"same_site"`
}

// Jar implements cookies.Jar backed by a BBolt database.
type Jar struct {
	db  *bbolt.DB
	log zerolog.Logger
}

var _ cookies.Jar = (*Jar)(nil)

// New returns a Jar backed by the given BBolt database.
func New(db *bbolt.DB) *Jar {
	return &Jar{db: db, log: log.Logger.With().Str("component", "boltjar").Logger()}
}

// Open opens (or creates) a BBolt database at path and returns a Jar over it.
func Open(path string) (*Jar, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating cookie directory: %w", err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cookie bucket: %w", err)
	}
	return New(db), nil
}

// Close closes the underlying BBolt database.
func (j *Jar) Close() error {
	return j.db.Close()
}

func (j *Jar) Set(name, value string, days int) {
	c := cookies.NewCookie(name, value, days)
	data, err := json.Marshal(storedCookie{
		Value:    c.Value,
		Path:     c.Path,
		Expires:  c.Expires,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
	if err != nil {
		j.log.Err(err).Str("cookie", name).Msg("encode cookie")
		return
	}
	err = j.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		return b.Put([]byte(name), data)
	})
	if err != nil {
		j.log.Err(err).Str("cookie", name).Msg("write cookie")
	}
}

func (j *Jar) Get(name string) (string, bool) {
	var stored storedCookie
	found := false
	err := j.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return nil
		}
		data := b.Get([]byte(name))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &stored)
	})
	if err != nil {
		j.log.Err(err).Str("cookie", name).Msg("read cookie")
		return "", false
	}
	if !found || !stored.Expires.After(cookies.NowTimeFunc()) {
		return "", false
	}
	return cookies.Decode(stored.Value), true
}

func (j *Jar) Delete(name string) {
	err := j.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(name))
	})
	if err != nil {
		j.log.Err(err).Str("cookie", name).Msg("delete cookie")
	}
}
