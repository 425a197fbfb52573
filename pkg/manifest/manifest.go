package manifest

import (
	"sort"
	"strings"

	"github.com/arthur-debert/mtcollect/pkg/errors"
	"github.com/arthur-debert/mtcollect/pkg/types"
)

// SchemaFileName is the JSON Schema file written next to a manifest.
const SchemaFileName = "config_schema.json"

// Manifest is the declared content of a collection.
type Manifest struct {
	Schema   string  `json:"$schema,omitempty"`
	AutoSort bool    `json:"auto_sort"`
	Content  Content `json:"content"`
}

// Content holds the package lists per category.
type Content struct {
	Mods         []types.PackageRef `json:"mods"`
	ClientMods   []types.PackageRef `json:"client_mods"`
	Games        []types.PackageRef `json:"games"`
	TexturePacks []types.PackageRef `json:"texture_packs"`
}

// New returns an empty manifest.
func New(autoSort bool) *Manifest {
	m := &Manifest{AutoSort: autoSort}
	m.normalize()
	return m
}

// list returns the slice holding category's references.
func (m *Manifest) list(category types.Category) *[]types.PackageRef {
	switch category {
	case types.CategoryMods:
		return &m.Content.Mods
	case types.CategoryClientMods:
		return &m.Content.ClientMods
	case types.CategoryGames:
		return &m.Content.Games
	case types.CategoryTexturePacks:
		return &m.Content.TexturePacks
	}
	return nil
}

// Packages returns the references declared for category.
func (m *Manifest) Packages(category types.Category) []types.PackageRef {
	if l := m.list(category); l != nil {
		return *l
	}
	return nil
}

// normalize turns missing categories into empty lists so they are written
// back as [] rather than null.
func (m *Manifest) normalize() {
	for _, c := range types.Categories {
		if l := m.list(c); *l == nil {
			*l = []types.PackageRef{}
		}
	}
}

// Add appends ref to category. A reference with the same origin and url,
// or one that would land in the same folder, is rejected.
func (m *Manifest) Add(category types.Category, ref types.PackageRef) error {
	l := m.list(category)
	if l == nil {
		return errors.Newf(errors.ErrInvalidInput, "unknown category %q", category)
	}
	if err := ref.Validate(); err != nil {
		return errors.Wrap(err, errors.ErrConfigValid, "invalid package").
			WithDetail("category", string(category))
	}

	for _, existing := range *l {
		if existing.Kind == ref.Kind && existing.URL == ref.URL {
			return errors.Newf(errors.ErrConfigValid, "%s is already declared in %s", ref.URL, category).
				WithDetail("category", string(category)).
				WithDetail("url", ref.URL)
		}
		if existing.Folder() == ref.Folder() {
			return errors.Newf(errors.ErrConfigValid, "folder %q in %s is already used by %s", ref.Folder(), category, existing.URL).
				WithDetail("category", string(category)).
				WithDetail("folder_name", ref.Folder())
		}
	}

	*l = append(*l, ref)
	return nil
}

// Remove deletes the reference with the given origin and url from category.
func (m *Manifest) Remove(category types.Category, kind types.OriginKind, url string) error {
	l := m.list(category)
	if l == nil {
		return errors.Newf(errors.ErrInvalidInput, "unknown category %q", category)
	}

	for i, existing := range *l {
		if existing.Kind == kind && existing.URL == url {
			*l = append((*l)[:i], (*l)[i+1:]...)
			return nil
		}
	}
	return errors.Newf(errors.ErrNotFound, "%s package %s is not declared in %s", kind, url, category).
		WithDetail("category", string(category)).
		WithDetail("url", url)
}

// Sort orders every category by url, ignoring case.
func (m *Manifest) Sort() {
	for _, c := range types.Categories {
		refs := *m.list(c)
		sort.SliceStable(refs, func(i, j int) bool {
			return strings.ToLower(refs[i].URL) < strings.ToLower(refs[j].URL)
		})
	}
}

// Categorized returns the declared references keyed by category, the form
// the collection reconciler consumes. Slices are copies.
func (m *Manifest) Categorized() types.CategorizedRefs {
	out := make(types.CategorizedRefs, len(types.Categories))
	for _, c := range types.Categories {
		refs := m.Packages(c)
		out[c] = append([]types.PackageRef(nil), refs...)
	}
	return out
}

// Count returns the number of declared packages.
func (m *Manifest) Count() int {
	n := 0
	for _, c := range types.Categories {
		n += len(m.Packages(c))
	}
	return n
}
