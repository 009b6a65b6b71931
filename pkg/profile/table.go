package profile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadTable returns the default table with any overrides from the YAML
// calibration file at path applied on top. A missing file is not an
// error: the defaults stand.
func LoadTable(path string) (Table, error) {
	table := Defaults()
	if path == "" {
		return table, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return table, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read calibration file: %w", err)
	}

	var overrides map[Target]Profile
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parse calibration file: %w", err)
	}

	for target, p := range overrides {
		if _, ok := table[target]; !ok {
			return nil, &UnknownTargetError{Requested: string(target)}
		}
		p.Target = target
		table[target] = p
	}
	return table, nil
}

// Save writes the table to the YAML calibration file at path.
func (t Table) Save(path string) error {
	data, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode calibration table: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
