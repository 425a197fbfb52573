package paths

import "path/filepath"

// CategoryDir returns <root>/<category>.
func CategoryDir(root, category string) string {
	return filepath.Join(root, category)
}

// PackagePath returns <root>/<category>/<folder>, the location whose
// presence decides between materialize and refresh.
func PackagePath(root, category, folder string) string {
	return filepath.Join(root, category, folder)
}
