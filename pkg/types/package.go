package types

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/mtcollect/pkg/paths"
)

// OriginKind identifies the external system a package comes from.
type OriginKind string

const (
	// OriginGit is a version-controlled repository reachable by git.
	OriginGit OriginKind = "git"
	// OriginContentDB is the ContentDB content registry.
	OriginContentDB OriginKind = "cdb"
)

// ParseOriginKind parses the manifest/CLI spelling of an origin kind.
func ParseOriginKind(s string) (OriginKind, error) {
	switch OriginKind(strings.ToLower(s)) {
	case OriginGit:
		return OriginGit, nil
	case OriginContentDB:
		return OriginContentDB, nil
	default:
		return "", fmt.Errorf("unknown origin kind %q (expected git or cdb)", s)
	}
}

// Category is a top-level grouping of the collection.
type Category string

const (
	CategoryMods         Category = "mods"
	CategoryClientMods   Category = "client_mods"
	CategoryGames        Category = "games"
	CategoryTexturePacks Category = "texture_packs"
)

// Categories lists every category in processing order.
var Categories = []Category{
	CategoryMods,
	CategoryClientMods,
	CategoryGames,
	CategoryTexturePacks,
}

// ParseCategory parses a category name.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q (expected one of %s)", s, strings.Join(CategoryNames(), ", "))
}

// CategoryNames returns the category names in processing order.
func CategoryNames() []string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return names
}

// PackageRef identifies one content unit. It is a value type: copies are
// independent and nothing in the engine mutates a reference after it has
// been built.
type PackageRef struct {
	Kind OriginKind `json:"type" yaml:"type"`
	URL  string     `json:"url" yaml:"url"`

	// FolderName is the declared folder name. Empty means derive it, see Folder.
	FolderName string `json:"folder_name,omitempty" yaml:"folder_name,omitempty"`

	// Branch is the git remote branch to track. Git only.
	Branch string `json:"git_remote_branch,omitempty" yaml:"git_remote_branch,omitempty"`
}

// NewPackageRef builds a validated reference.
func NewPackageRef(kind OriginKind, url, folderName, branch string) (PackageRef, error) {
	ref := PackageRef{Kind: kind, URL: url, FolderName: folderName, Branch: branch}
	return ref, ref.Validate()
}

// Validate checks the invariants every reference must satisfy.
func (r PackageRef) Validate() error {
	if r.Kind != OriginGit && r.Kind != OriginContentDB {
		return fmt.Errorf("unknown origin kind %q", r.Kind)
	}
	if strings.TrimSpace(r.URL) == "" {
		return fmt.Errorf("package url must not be empty")
	}
	if r.Branch != "" && r.Kind != OriginGit {
		return fmt.Errorf("git_remote_branch is only valid for git packages (%s)", r.URL)
	}
	folder := r.Folder()
	if folder == "" {
		return fmt.Errorf("cannot derive a folder name from %q", r.URL)
	}
	if !validFolderName(folder) {
		return fmt.Errorf("folder name %q for %s must be a single path segment", folder, r.URL)
	}
	return nil
}

// validFolderName matches the manifest schema's folder_name rule, so a
// reference accepted here can be loaded back.
func validFolderName(name string) bool {
	return name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

// Folder returns the local folder name: the declared one, or one derived
// from the URL. For ContentDB the derived name is the package name segment
// of the locator, which is what the registry reports as the canonical name.
func (r PackageRef) Folder() string {
	if r.FolderName != "" {
		return r.FolderName
	}
	switch r.Kind {
	case OriginContentDB:
		_, name, err := paths.ContentDBLocator(r.URL)
		if err != nil {
			return ""
		}
		return name
	default:
		return paths.GitFolderName(r.URL)
	}
}

// String renders the reference for logs and messages.
func (r PackageRef) String() string {
	if r.Branch != "" {
		return fmt.Sprintf("%s:%s@%s", r.Kind, r.URL, r.Branch)
	}
	return fmt.Sprintf("%s:%s", r.Kind, r.URL)
}

// CategorizedRefs is the declared package list grouped by category.
type CategorizedRefs map[Category][]PackageRef

// Count returns the number of references across all categories.
func (c CategorizedRefs) Count() int {
	n := 0
	for _, refs := range c {
		n += len(refs)
	}
	return n
}
