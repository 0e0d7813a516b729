package session

import (
	"errors"
	"fmt"
	"os"
	"path"
	"regexp"

	"gopkg.in/yaml.v3"
)

const stateFile = "state.yaml"

var unsafeChars = regexp.MustCompile(`[^\w]`)

// Sanitise keeps word characters only, so server names and components make safe file names.
func Sanitise(s string) string {
	return unsafeChars.ReplaceAllString(s, "")
}

// Store keeps ticket snapshots under <Dir>/<sanitised server>/.
type Store struct {
	Dir    string
	Server string
}

func (s Store) ServerDir() string {
	return path.Join(s.Dir, Sanitise(s.Server))
}

func (s Store) SnapshotPath(key string) string {
	return path.Join(s.ServerDir(), "session."+Sanitise(key)+".yaml")
}

// Present reports whether a snapshot exists for key.
func (s Store) Present(key string) bool {
	stat, err := os.Stat(s.SnapshotPath(key))
	return err == nil && !stat.IsDir()
}

// Save writes the ticket session as the snapshot for key, replacing any earlier one.
func (s Store) Save(key string, ts *TicketSession) (string, error) {
	if Sanitise(key) == "" {
		return "", invalid("session key %q has no usable characters", key)
	}

	if err := ensureDir(s.ServerDir()); err != nil {
		return "", err
	}

	abs := s.SnapshotPath(key)
	if err := writeYAML(abs, ts); err != nil {
		return "", err
	}
	return abs, nil
}

func (s Store) Load(key string) (*TicketSession, error) {
	abs := s.SnapshotPath(key)

	ts := new(TicketSession)
	found, err := readYAML(abs, ts)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, invalid("there is no session saved as %s", abs)
	}
	return ts, nil
}

// LoadState reads <dir>/state.yaml.  A missing file is not an error; found is false.
func LoadState(dir string) (State, bool, error) {
	var st State
	found, err := readYAML(path.Join(dir, stateFile), &st)
	return st, found, err
}

func SaveState(dir string, st State) error {
	if err := ensureDir(dir); err != nil {
		return err
	}
	return writeYAML(path.Join(dir, stateFile), st)
}

func ensureDir(dir string) error {
	stat, err := os.Stat(dir)
	if err == nil {
		if !stat.IsDir() {
			return fmt.Errorf("session: store path not a directory: '%s'", dir)
		}
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: cannot stat '%s': %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("session: couldn't create directory %s: %w", dir, err)
	}
	return nil
}

func writeYAML(abs string, v any) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("session: couldn't marshal %s: %w", abs, err)
	}
	if err := os.WriteFile(abs, out, 0640); err != nil {
		return fmt.Errorf("session: couldn't write %s: %w", abs, err)
	}
	return nil
}

func readYAML(abs string, v any) (bool, error) {
	source, err := os.ReadFile(abs)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("session: couldn't read %s: %w", abs, err)
	}
	if err := yaml.Unmarshal(source, v); err != nil {
		return false, fmt.Errorf("session: couldn't parse %s: %w", abs, err)
	}
	return true, nil
}
