package vault

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

var _ Vault = (*File)(nil)

// File is a Vault persisted as a JSON file under the configured data
// folder. The whole file is rewritten on every mutation; entries survive
// process restarts the way localStorage survives page reloads.
type File struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

func NewFile(dataFolder string) (*File, error) {
	path := filepath.Join(dataFolder, "vault.json")
	f := &File{path: path, values: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, errors.Wrap(err, "[NewFile] read vault")
	}
	if err := json.Unmarshal(data, &f.values); err != nil {
		return nil, errors.Wrap(err, "[NewFile] decode vault")
	}
	return f, nil
}

func (f *File) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	v, ok := f.values[key]
	return v, ok
}

func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.values[key] = value
	return f.flush()
}

func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.values, key)
	return f.flush()
}

func (f *File) flush() error {
	data, err := json.Marshal(f.values)
	if err != nil {
		return errors.Wrap(err, "[File.flush] encode vault")
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return errors.Wrap(err, "[File.flush] create data folder")
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return errors.Wrap(err, "[File.flush] write vault")
	}
	return nil
}
