package assets

import (
	"fmt"
	"strings"
)

// AssetLoader defines the contract for loading CSS styles.
// Implementations may load from embedded assets, filesystem, etc.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)
}

// ValidateAssetName checks that an asset name is safe for use as a filename.
// Path separators and dots are rejected so a name can neither leave the
// styles directory nor change the extension.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
