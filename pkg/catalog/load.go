package catalog

import (
	"github.com/BurntSushi/toml"

	"github.com/mailworks/quadplan/pkg/errors"
)

// catalogFile is the on-disk TOML shape of a catalog.
//
//	[[door]]
//	code = "sd"
//	units = 1
//	category = "tenant"
//	usps_approved = true
//
//	[[frame]]
//	model = "4C06D-04"
//	width = 30.5
//	height = 21.0
//	units = 6
//	left = ["dd", "sd", "sd", "dd"]
//	right = ["p3", "om", "dd"]
//	configurable = true
type catalogFile struct {
	Doors  []DoorType   `toml:"door"`
	Frames []FrameModel `toml:"frame"`
}

// LoadFile reads a TOML catalog file. Entries extend and override the
// built-in defaults, so a site catalog only needs to declare what differs.
// The merged catalog is validated before it is returned.
func LoadFile(path string) (*Catalog, error) {
	var file catalogFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse catalog %s", path)
	}

	doors := append(append([]DoorType{}, defaultDoorTypes...), file.Doors...)
	frames := mergeFrames(defaultFrameModels, file.Frames)

	c := New(doors, frames)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// mergeFrames appends overrides to base, replacing models that share a name
// while preserving catalog order.
func mergeFrames(base, overrides []FrameModel) []FrameModel {
	replaced := make(map[string]FrameModel, len(overrides))
	for _, f := range overrides {
		replaced[f.Model] = f
	}

	out := make([]FrameModel, 0, len(base)+len(overrides))
	for _, f := range base {
		if o, ok := replaced[f.Model]; ok {
			out = append(out, o)
			delete(replaced, f.Model)
			continue
		}
		out = append(out, f)
	}
	for _, f := range overrides {
		if _, ok := replaced[f.Model]; ok {
			out = append(out, f)
		}
	}
	return out
}
