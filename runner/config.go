package runner

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// ErrBadJSON marks a config file whose contents could not be decoded as
// JSON. Callers can test for it with errors.Is to distinguish malformed
// configs from missing files.
var ErrBadJSON = errors.New("config is not valid JSON")

// Config is the JSON document driving a run. Pipeline lists registered
// step names in execution order. Data, when present, is the raw JSON
// value handed to the target kind's FromJSON hook; when absent the kind's
// default data is used instead. Validators lists registered check names
// appended after the kind's base validator.
type Config struct {
	Pipeline   []string        `json:"PIPELINE"`
	Data       json.RawMessage `json:"DATA,omitempty"`
	Validators []string        `json:"VALIDATORS,omitempty"`
}

// Load reads and decodes the config file at path. Read failures are
// wrapped with the path; decode failures additionally match ErrBadJSON.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, errors.Wrapf(ErrBadJSON, "%s: %v", path, err)
	}
	return cfg, nil
}
