package replay

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pelletier/go-toml/v2"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/lixenwraith/kcc/parameter"
)

// ErrMalformed marks replay data that could not be decoded
var ErrMalformed = errors.New("malformed replay")

// Format selects the on-disk encoding
type Format uint8

const (
	FormatTOML Format = iota
	FormatMsgpack
)

// FormatForPath picks the encoding from the file extension; anything but .msgpack is TOML
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".msgpack") {
		return FormatMsgpack
	}
	return FormatTOML
}

// tomlFile is the text layout: velocities keyed by decimal tick index
type tomlFile struct {
	Version    int                  `toml:"version"`
	TickHz     int                  `toml:"tick_hz"`
	Velocities map[string][]float64 `toml:"velocities"`
}

type msgpackFile struct {
	Version    int                  `msgpack:"version"`
	TickHz     int                  `msgpack:"tick_hz"`
	Velocities map[uint32][]float64 `msgpack:"velocities"`
}

// Marshal encodes rec in the given format
func Marshal(rec *Recording, format Format) ([]byte, error) {
	switch format {
	case FormatTOML:
		f := tomlFile{
			Version:    parameter.ReplayFormatVersion,
			TickHz:     rec.TickHz,
			Velocities: make(map[string][]float64, rec.Len()),
		}
		for t, v := range rec.velocities {
			f.Velocities[strconv.FormatUint(uint64(t), 10)] = []float64{v[0], v[1], v[2]}
		}
		return toml.Marshal(f)

	case FormatMsgpack:
		f := msgpackFile{
			Version:    parameter.ReplayFormatVersion,
			TickHz:     rec.TickHz,
			Velocities: make(map[uint32][]float64, rec.Len()),
		}
		for t, v := range rec.velocities {
			f.Velocities[t] = []float64{v[0], v[1], v[2]}
		}
		return msgpack.Marshal(&f)

	default:
		return nil, fmt.Errorf("unknown replay format %d", format)
	}
}

// Unmarshal decodes data; every decode failure wraps ErrMalformed
func Unmarshal(data []byte, format Format) (*Recording, error) {
	rec := NewRecording()

	switch format {
	case FormatTOML:
		var f tomlFile
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if err := checkHeader(rec, f.Version, f.TickHz); err != nil {
			return nil, err
		}
		for key, comps := range f.Velocities {
			tick, err := strconv.ParseUint(key, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("%w: tick key %q: %v", ErrMalformed, key, err)
			}
			v, err := toVec3(comps)
			if err != nil {
				return nil, fmt.Errorf("%w: tick %d: %v", ErrMalformed, tick, err)
			}
			rec.Set(uint32(tick), v)
		}

	case FormatMsgpack:
		var f msgpackFile
		if err := msgpack.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if err := checkHeader(rec, f.Version, f.TickHz); err != nil {
			return nil, err
		}
		for tick, comps := range f.Velocities {
			v, err := toVec3(comps)
			if err != nil {
				return nil, fmt.Errorf("%w: tick %d: %v", ErrMalformed, tick, err)
			}
			rec.Set(tick, v)
		}

	default:
		return nil, fmt.Errorf("unknown replay format %d", format)
	}

	return rec, nil
}

// checkHeader accepts a missing header for hand-written files
func checkHeader(rec *Recording, version, tickHz int) error {
	if version != 0 && version != parameter.ReplayFormatVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrMalformed, version)
	}
	if tickHz < 0 {
		return fmt.Errorf("%w: tick rate %d", ErrMalformed, tickHz)
	}
	if tickHz != 0 {
		rec.TickHz = tickHz
	}
	return nil
}

func toVec3(comps []float64) (mgl64.Vec3, error) {
	if len(comps) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(comps))
	}
	return mgl64.Vec3{comps[0], comps[1], comps[2]}, nil
}

// Load reads a recording from path, choosing the codec by extension
func Load(path string) (*Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read replay: %w", err)
	}
	rec, err := Unmarshal(data, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

// Save writes rec to path, creating or truncating it
// A failed write removes the partial file
func Save(path string, rec *Recording) error {
	data, err := Marshal(rec, FormatForPath(path))
	if err != nil {
		return fmt.Errorf("encode replay: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create replay: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write replay: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close replay: %w", err)
	}
	return nil
}
