// Package preference stores the per-site image format choice.
package preference

import (
	"fmt"
	"os"
	"path/filepath"

	"leitor/internal/domain"

	"github.com/philippgille/gokv"
	"github.com/philippgille/gokv/bbolt"
	"github.com/philippgille/gokv/syncmap"
	"github.com/pkg/errors"
)

const FormatKey = "preferred_format"

// Namespace is the key scope of one site instance.
func Namespace(siteID string) string {
	return "source_" + siteID
}

type Store struct {
	kv        gokv.Store
	namespace string
}

func New(kv gokv.Store, namespace string) *Store {
	return &Store{kv: kv, namespace: namespace}
}

// NewMemory keeps preferences for the lifetime of the process.
func NewMemory(namespace string) *Store {
	return New(syncmap.NewStore(syncmap.DefaultOptions), namespace)
}

// OpenBolt opens or creates the bolt file at path.
func OpenBolt(path string, namespace string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, errors.Wrapf(err, "could not create directory for %s", path)
	}

	kv, err := bbolt.NewStore(bbolt.Options{
		BucketName: "preferences",
		Path:       path,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not open preference store %s", path)
	}

	return New(kv, namespace), nil
}

func (s *Store) key(name string) string {
	return fmt.Sprintf("%s.%s", s.namespace, name)
}

// Format returns the stored format. Missing or unknown values read as avif.
func (s *Store) Format() (domain.Format, error) {
	var value string

	found, err := s.kv.Get(s.key(FormatKey), &value)
	if err != nil {
		return domain.FormatAvif, errors.Wrap(err, "could not read preferred format")
	}

	format := domain.Format(value)
	if !found || !format.Valid() {
		return domain.FormatAvif, nil
	}

	return format, nil
}

func (s *Store) SetFormat(format domain.Format) error {
	if !format.Valid() {
		return errors.Errorf("invalid format %q, must be one of %q or %q", format, domain.FormatAvif, domain.FormatWebp)
	}

	if err := s.kv.Set(s.key(FormatKey), string(format)); err != nil {
		return errors.Wrap(err, "could not store preferred format")
	}

	return nil
}

func (s *Store) Close() error {
	return s.kv.Close()
}

// File opens the bolt file for every call, so several processes can share it
// without holding its lock.
type File struct {
	Path      string
	Namespace string
}

func (f File) Format() (domain.Format, error) {
	if _, err := os.Stat(f.Path); errors.Is(err, os.ErrNotExist) {
		return domain.FormatAvif, nil
	}

	s, err := OpenBolt(f.Path, f.Namespace)
	if err != nil {
		return domain.FormatAvif, err
	}
	defer s.Close()

	return s.Format()
}

func (f File) SetFormat(format domain.Format) error {
	s, err := OpenBolt(f.Path, f.Namespace)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.SetFormat(format)
}
