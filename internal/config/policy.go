package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Policy is the optional on-disk solver policy: per-type tier value
// overrides and default objective penalties, loaded once at startup.
// The serve command applies RoomValues on top of catalogue.New()'s
// built-in tables; JunctionPenalty and EmptyPenalty are parsed but no
// caller applies them to a solve. A
// yaml.v3-tagged struct tree with a DefaultPolicy() zero-value
// constructor, loaded only if a path is supplied (most deployments
// run on the built-in catalogue alone).
type Policy struct {
	RoomValues      map[string][3]int `yaml:"room_values"`
	JunctionPenalty int               `yaml:"junction_penalty"`
	EmptyPenalty    int               `yaml:"empty_penalty"`
}

// DefaultPolicy returns the zero-override policy: no room value
// overrides, zero default penalties (the request body's own
// junction_penalty/empty_penalty fields take precedence regardless).
func DefaultPolicy() Policy {
	return Policy{}
}

// LoadPolicy reads a YAML policy file from path. A missing path is not
// an error — callers pass "" to mean "use DefaultPolicy()".
func LoadPolicy(path string) (Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, err
	}
	policy := DefaultPolicy()
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return Policy{}, err
	}
	return policy, nil
}
