package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-json"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/rs/zerolog"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// DefaultStoreName is the file created under the user config directory
const DefaultStoreName = "config.yaml"

// DefaultStorePath returns $XDG_CONFIG_HOME/metasync/config.yaml or the
// platform equivalent
func DefaultStorePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Errorf("locating user config directory: %w", err)
	}
	return filepath.Join(dir, "metasync", DefaultStoreName), nil
}

// 🎯 LoadStore reads the alias store at path. The format is picked by
// extension: .json, .yaml/.yml, .hcl or .toml. A missing file is an empty
// store, so the first save creates it.
func LoadStore(ctx context.Context, path string) (*Store, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading alias store")

	format, err := formatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Str("path", path).Msg("alias store does not exist yet")
			return &Store{location: path}, nil
		}
		return nil, errors.Errorf("reading config file: %w", err)
	}

	var store *Store
	switch format {
	case "json":
		store, err = loadJSON(data)
	case "yaml":
		store, err = loadYAML(data)
	case "hcl":
		store, err = loadHCL(data, path)
	case "toml":
		store, err = loadTOML(data)
	}
	if err != nil {
		return nil, err
	}

	store.location = path
	for i := range store.Configs {
		store.Configs[i].FilesToSync = NormalizeFilesToSync(store.Configs[i].FilesToSync)
	}

	return store, nil
}

// Save writes the store back to its location atomically
func (s *Store) Save(ctx context.Context) error {
	if s.location == "" {
		return errors.New("store has no location")
	}
	return s.SaveAs(ctx, s.location)
}

// SaveAs writes the store to path in the format matching its extension
func (s *Store) SaveAs(ctx context.Context, path string) error {
	format, err := formatFor(path)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case "json":
		data, err = json.MarshalIndent(s, "", "  ")
	case "yaml":
		data, err = yaml.Marshal(s)
	case "hcl":
		f := hclwrite.NewEmptyFile()
		gohcl.EncodeIntoBody(s, f.Body())
		data = f.Bytes()
	case "toml":
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(s)
		data = buf.Bytes()
	}
	if err != nil {
		return errors.Errorf("encoding %s store: %w", format, err)
	}

	if err := writeFileAtomic(path, data); err != nil {
		return err
	}
	s.location = path

	zerolog.Ctx(ctx).Debug().Str("path", path).Int("configs", len(s.Configs)).Msg("saved alias store")
	return nil
}

func formatFor(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return "json", nil
	case ".yaml", ".yml":
		return "yaml", nil
	case ".hcl":
		return "hcl", nil
	case ".toml":
		return "toml", nil
	default:
		return "", errors.Errorf("unsupported file extension %q", ext)
	}
}

func loadJSON(data []byte) (*Store, error) {
	var store Store
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&store); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	return &store, nil
}

func loadYAML(data []byte) (*Store, error) {
	var store Store
	if len(bytes.TrimSpace(data)) == 0 {
		return &store, nil
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&store); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &store, nil
}

// loadHCL exposes the process environment as env.NAME inside expressions
func loadHCL(data []byte, filename string) (*Store, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": environment(),
		},
	}

	var store Store
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &store)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}
	return &store, nil
}

func loadTOML(data []byte) (*Store, error) {
	var store Store
	md, err := toml.Decode(string(data), &store)
	if err != nil {
		return nil, errors.Errorf("parsing TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.Errorf("parsing TOML: unknown keys %s", strings.Join(keys, ", "))
	}
	return &store, nil
}

func environment() cty.Value {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			vars[k] = cty.StringVal(v)
		}
	}
	if len(vars) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vars)
}

// writeFileAtomic writes to a temp file in the target directory and renames it
// over the target
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Errorf("creating config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Errorf("renaming temp file: %w", err)
	}
	return nil
}
