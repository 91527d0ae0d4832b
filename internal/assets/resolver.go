package assets

import (
	"errors"
	"fmt"
	"os"

	"github.com/Adoubf/json2pdf/internal/fileutil"
)

// AssetResolver combines custom and embedded loaders with fallback logic.
// A custom loader is tried first; embedded styles fill in names it lacks.
type AssetResolver struct {
	custom   AssetLoader // nil if no custom path configured
	embedded AssetLoader
}

// NewAssetResolver creates an AssetResolver.
// If customBasePath is empty, only embedded styles are used.
// Returns error if customBasePath is set but invalid.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	resolver := &AssetResolver{
		embedded: NewEmbeddedLoader(),
	}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}

	return resolver, nil
}

// LoadStyle loads a CSS style by name, trying the custom loader first.
// Only "not found" falls back to embedded styles; validation and I/O errors
// from the custom directory are returned as-is.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	if r.custom == nil {
		return r.embedded.LoadStyle(name)
	}

	content, err := r.custom.LoadStyle(name)
	if err == nil || !errors.Is(err, ErrStyleNotFound) {
		return content, err
	}
	return r.embedded.LoadStyle(name)
}

// ResolveStyle loads a style given either a name ("compact") or a path to a
// CSS file ("./styles/mine.css"). An empty reference selects DefaultStyleName.
func (r *AssetResolver) ResolveStyle(ref string) (string, error) {
	if ref == "" {
		ref = DefaultStyleName
	}
	if !fileutil.IsFilePath(ref) {
		return r.LoadStyle(ref)
	}

	content, err := os.ReadFile(ref) // #nosec G304 -- user-specified stylesheet
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrStyleNotFound, ref)
		}
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return string(content), nil
}

// HasCustomLoader returns true if a custom asset loader is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ AssetLoader = (*AssetResolver)(nil)
