package llhd

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Current artifact schema version - increment when the encoded layout changes.
const artifactSchemaVersion uint16 = 1

const artifactFormat = "vlower-llhd"

type artifact struct {
	Format string      `msgpack:"format"`
	Schema uint16      `msgpack:"schema"`
	Units  []*UnitData `msgpack:"units"`
}

// EncodeModule writes m as a msgpack artifact.
func EncodeModule(w io.Writer, m *Module) error {
	enc := msgpack.NewEncoder(w)
	return enc.Encode(&artifact{
		Format: artifactFormat,
		Schema: artifactSchemaVersion,
		Units:  m.units,
	})
}

// DecodeModule reads an artifact written by EncodeModule.
func DecodeModule(r io.Reader) (*Module, error) {
	var a artifact
	if err := msgpack.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("llhd: decode artifact: %w", err)
	}
	if a.Format != artifactFormat {
		return nil, fmt.Errorf("llhd: not an IR artifact (format %q)", a.Format)
	}
	if a.Schema != artifactSchemaVersion {
		return nil, fmt.Errorf("llhd: artifact schema %d, want %d", a.Schema, artifactSchemaVersion)
	}
	m := NewModule()
	for _, u := range a.Units {
		if err := m.AddUnit(u); err != nil {
			return nil, err
		}
	}
	return m, nil
}
