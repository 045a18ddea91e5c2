// Package assets maps fish names to the static images shipped with the
// front end.
package assets

import (
	"path"
	"strings"
	"unicode"

	"aquashop/models"
)

const (
	DefaultBase        = "/static/fish"
	DefaultPlaceholder = "placeholder.jpg"
)

// keyword order matters: the first keyword found in the slug wins, so the
// more specific names come first.
var defaultKeywords = []struct{ keyword, file string }{
	{"flowerhorn", "flowerhorn.jpg"},
	{"arowana", "arowana.jpg"},
	{"angelfish", "angelfish.jpg"},
	{"angel", "angelfish.jpg"},
	{"betta", "betta.jpg"},
	{"fighter", "betta.jpg"},
	{"guppy", "guppy.jpg"},
	{"molly", "molly.jpg"},
	{"platy", "platy.jpg"},
	{"swordtail", "swordtail.jpg"},
	{"goldfish", "goldfish.jpg"},
	{"oranda", "goldfish.jpg"},
	{"koi", "koi.jpg"},
	{"oscar", "oscar.jpg"},
	{"discus", "discus.jpg"},
	{"tetra", "tetra.jpg"},
	{"barb", "barb.jpg"},
	{"gourami", "gourami.jpg"},
	{"cichlid", "cichlid.jpg"},
	{"pleco", "pleco.jpg"},
	{"catfish", "catfish.jpg"},
	{"shark", "shark.jpg"},
	{"zebra", "zebra-danio.jpg"},
	{"danio", "zebra-danio.jpg"},
	{"loach", "loach.jpg"},
	{"shrimp", "shrimp.jpg"},
	{"snail", "snail.jpg"},
}

// Resolver picks an image path for a fish: the fish's own image, then an
// exact name mapping, then the first keyword match, then a placeholder.
type Resolver struct {
	base        string
	placeholder string
	exact       map[string]string
	keywords    []struct{ keyword, file string }
}

func NewResolver(base string, exact map[string]string) *Resolver {
	if base == "" {
		base = DefaultBase
	}
	r := &Resolver{
		base:        base,
		placeholder: DefaultPlaceholder,
		exact:       make(map[string]string, len(exact)),
		keywords:    defaultKeywords,
	}
	for name, file := range exact {
		r.exact[Slug(name)] = file
	}
	return r
}

// Resolve returns the image path for name.
func (r *Resolver) Resolve(name string) string {
	slug := Slug(name)
	if file, ok := r.exact[slug]; ok {
		return r.join(file)
	}
	compact := strings.ReplaceAll(slug, "-", "")
	for _, k := range r.keywords {
		if strings.Contains(slug, k.keyword) || strings.Contains(compact, k.keyword) {
			return r.join(k.file)
		}
	}
	return r.join(r.placeholder)
}

// ImageFor keeps an explicit image and resolves one otherwise.
func (r *Resolver) ImageFor(f models.Fish) string {
	if strings.TrimSpace(f.Image) != "" {
		return f.Image
	}
	return r.Resolve(f.Name)
}

func (r *Resolver) join(file string) string {
	if strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
		return file
	}
	return path.Join(r.base, file)
}

// Slug lowercases name and collapses every run of non-alphanumerics to a
// single dash.
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, c := range strings.ToLower(name) {
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			b.WriteRune(c)
			dash = false
			continue
		}
		if b.Len() > 0 && !dash {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
