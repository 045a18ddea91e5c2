package assets

import (
	"testing"

	"aquashop/models"

	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	assert.Equal(t, "halfmoon-betta", Slug("  Halfmoon   Betta!! "))
	assert.Equal(t, "red-cap-oranda", Slug("Red-Cap (Oranda)"))
	assert.Equal(t, "", Slug("***"))
}

func TestResolve(t *testing.T) {
	r := NewResolver("", map[string]string{"Blue Dream Shrimp": "blue-dream.jpg"})

	tests := []struct {
		name string
		want string
	}{
		{"Blue Dream Shrimp", "/static/fish/blue-dream.jpg"},
		{"blue  dream shrimp", "/static/fish/blue-dream.jpg"},
		{"Red Cherry Shrimp", "/static/fish/shrimp.jpg"},
		{"Halfmoon Betta", "/static/fish/betta.jpg"},
		{"Siamese Fighter", "/static/fish/betta.jpg"},
		{"Neon Tetra", "/static/fish/tetra.jpg"},
		{"Angel Fish", "/static/fish/angelfish.jpg"},
		{"Gold Fish", "/static/fish/goldfish.jpg"},
		{"Mystery Creature", "/static/fish/placeholder.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.name))
		})
	}
}

func TestImageForKeepsExplicitImage(t *testing.T) {
	r := NewResolver("/img", nil)
	assert.Equal(t, "https://cdn.example.com/oscar.png", r.ImageFor(models.Fish{Name: "Oscar", Image: "https://cdn.example.com/oscar.png"}))
	assert.Equal(t, "/img/oscar.jpg", r.ImageFor(models.Fish{Name: "Tiger Oscar"}))
}
