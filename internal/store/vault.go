package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/roach88/kinship/internal/rel"
)

// Vault is a filesystem EntityStore: a flat directory of markdown
// files, one contact per file. The entity id is the file stem; the
// display name is the frontmatter "name" field, falling back to the
// stem.
//
// Writes go through a temp file and rename, so a crashed write never
// leaves a half-written contact behind.
type Vault struct {
	dir string
}

// NewVault opens a vault directory, creating it if needed.
func NewVault(dir string) (*Vault, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create vault dir: %w", err)
	}
	return &Vault{dir: dir}, nil
}

// Dir returns the vault directory path.
func (v *Vault) Dir() string {
	return v.dir
}

func (v *Vault) path(id string) string {
	return filepath.Join(v.dir, id+".md")
}

func (v *Vault) ListEntities(ctx context.Context) ([]EntityRef, error) {
	entries, err := os.ReadDir(v.dir)
	if err != nil {
		return nil, fmt.Errorf("list vault: %w", err)
	}

	var refs []EntityRef
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".md")
		ref := EntityRef{ID: id, DisplayName: id}
		if text, err := os.ReadFile(v.path(id)); err == nil {
			if name := ParseDocument(string(text)).Field("name"); name != "" {
				ref.DisplayName = name
			}
		}
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })
	return refs, nil
}

func (v *Vault) ReadText(ctx context.Context, ref EntityRef) (string, error) {
	data, err := os.ReadFile(v.path(ref.ID))
	if os.IsNotExist(err) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", ref.ID, err)
	}
	return string(data), nil
}

func (v *Vault) WriteText(ctx context.Context, ref EntityRef, text string) error {
	tmp, err := os.CreateTemp(v.dir, "."+ref.ID+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", ref.ID, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", ref.ID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", ref.ID, err)
	}
	if err := os.Rename(tmpName, v.path(ref.ID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", ref.ID, err)
	}
	return nil
}

func (v *Vault) LookupByDisplayName(ctx context.Context, name string) (EntityRef, bool, error) {
	refs, err := v.ListEntities(ctx)
	if err != nil {
		return EntityRef{}, false, err
	}
	want := rel.NormalizeName(name)
	for _, ref := range refs {
		if rel.NormalizeName(ref.DisplayName) == want {
			return ref, true, nil
		}
	}
	return EntityRef{}, false, nil
}

func (v *Vault) LookupByID(ctx context.Context, id string) (EntityRef, bool, error) {
	if _, err := os.Stat(v.path(id)); os.IsNotExist(err) {
		return EntityRef{}, false, nil
	} else if err != nil {
		return EntityRef{}, false, fmt.Errorf("stat %s: %w", id, err)
	}
	ref := EntityRef{ID: id, DisplayName: id}
	if text, err := os.ReadFile(v.path(id)); err == nil {
		if name := ParseDocument(string(text)).Field("name"); name != "" {
			ref.DisplayName = name
		}
	}
	return ref, true, nil
}
