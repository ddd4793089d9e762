package content

import (
	"bytes"
	"context"
	_ "embed"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/ridgeline/pkg/errors"
)

//go:embed default.toml
var defaultRegistry []byte

// registry is the on-disk TOML layout: one array of tables per category.
type registry struct {
	Education []Record `toml:"education"`
	About     []Record `toml:"about"`
	Projects  []Record `toml:"projects"`
	Clubs     []Record `toml:"clubs"`
	Research  []Record `toml:"research"`
}

// TOMLStore serves records decoded from a TOML registry. It is read-only
// and safe for concurrent use.
type TOMLStore struct {
	records map[Category][]Record
}

// DefaultStore returns the store built from the embedded registry.
func DefaultStore() *TOMLStore {
	s, err := LoadTOML(bytes.NewReader(defaultRegistry))
	if err != nil {
		panic("content: embedded registry: " + err.Error())
	}
	return s
}

// OpenTOML reads a registry file.
func OpenTOML(path string) (*TOMLStore, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "content registry %s", path)
		}
		return nil, err
	}
	defer f.Close()
	return LoadTOML(f)
}

// LoadTOML decodes a registry. Unknown keys and invalid records are errors.
func LoadTOML(r io.Reader) (*TOMLStore, error) {
	var reg registry
	md, err := toml.NewDecoder(r).Decode(&reg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode content registry")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown keys in content registry: %s", strings.Join(keys, ", "))
	}

	s := &TOMLStore{records: map[Category][]Record{
		Education: reg.Education,
		About:     reg.About,
		Projects:  reg.Projects,
		Clubs:     reg.Clubs,
		Research:  reg.Research,
	}}
	for c, recs := range s.records {
		for i := range recs {
			recs[i].Category = c
			if err := recs[i].Validate(); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s[%d]", c, i)
			}
		}
		sortRecords(recs)
	}
	return s, nil
}

// List returns a copy of the records of c.
func (s *TOMLStore) List(_ context.Context, c Category) ([]Record, error) {
	if err := checkCategory(c); err != nil {
		return nil, err
	}
	return slices.Clone(s.records[c]), nil
}

// All returns every record, grouped by category in page order.
func (s *TOMLStore) All() []Record {
	var out []Record
	for _, c := range Categories() {
		out = append(out, s.records[c]...)
	}
	return out
}

// Categories returns every category.
func (s *TOMLStore) Categories() []Category { return Categories() }

// Close does nothing.
func (s *TOMLStore) Close() error { return nil }

var _ Store = (*TOMLStore)(nil)
