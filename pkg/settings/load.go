package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/advancecard/pkg/errors"
)

// Encodings of settings documents.
const (
	EncodingTOML = "toml"
	EncodingYAML = "yaml"
	EncodingJSON = "json"
)

// EncodingFor returns the encoding implied by a file extension.
func EncodingFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return EncodingTOML, nil
	case ".yaml", ".yml":
		return EncodingYAML, nil
	case ".json":
		return EncodingJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat,
		"unsupported settings file %q (must be .toml, .yaml, .yml or .json)", filepath.Base(path))
}

// Load reads a settings file on top of the defaults.
func Load(path string) (Settings, error) {
	enc, err := EncodingFor(path)
	if err != nil {
		return Settings{}, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Settings{}, errors.New(errors.ErrCodeFileNotFound, "settings file not found: %s", path)
	}
	if err != nil {
		return Settings{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open %s", path)
	}
	defer f.Close()
	return Decode(f, enc)
}

// Decode reads a settings document in the given encoding on top of the
// defaults. Unknown keys are rejected.
func Decode(r io.Reader, encoding string) (Settings, error) {
	s := Defaults()
	switch encoding {
	case EncodingTOML:
		md, err := toml.NewDecoder(r).Decode(&s)
		if err != nil {
			return Settings{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode toml settings")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return Settings{}, errors.New(errors.ErrCodeInvalidConfig, "unknown settings keys: %s", strings.Join(keys, ", "))
		}
	case EncodingYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil && err != io.EOF {
			return Settings{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode yaml settings")
		}
	case EncodingJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil && err != io.EOF {
			return Settings{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode json settings")
		}
	default:
		return Settings{}, errors.New(errors.ErrCodeInvalidFormat, "unknown settings encoding %q", encoding)
	}
	s.Normalize()
	return s, nil
}

// Encode writes s in the given encoding.
func Encode(w io.Writer, s Settings, encoding string) error {
	var buf bytes.Buffer
	switch encoding {
	case EncodingTOML:
		if err := toml.NewEncoder(&buf).Encode(s); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
	case EncodingYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
	case EncodingJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown settings encoding %q", encoding)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
