package capture

import "gtd-cli/internal/platform"

// SourceOption is one entry of the attach-source selector.
type SourceOption struct {
	Label string
	Value platform.Capability
}

// SourceOptions lists the choices offered by the selector widget.
func SourceOptions() []SourceOption {
	return []SourceOption{
		{Label: "Take photo", Value: platform.Camera},
		{Label: "Choose from library", Value: platform.MediaLibrary},
	}
}
