package store

import (
	"testing"

	"github.com/lennartdeknikker/jaco-line/internal/model"
)

func TestImageURL(t *testing.T) {
	s := &documentStore{client: &Client{cdnBaseURL: "https://cdn.example.test/images/p/d"}}

	tests := []struct {
		name string
		img  *model.Image
		w    int
		want string
	}{
		{"nil image", nil, 1200, ""},
		{"no asset", &model.Image{}, 1200, ""},
		{
			"from ref",
			&model.Image{Asset: &model.Asset{Ref: "image-abc123-1600x900-jpg"}},
			1200,
			"https://cdn.example.test/images/p/d/abc123-1600x900.jpg?w=1200&auto=format",
		},
		{
			"resolved url",
			&model.Image{Asset: &model.Asset{URL: "https://cdn.example.test/images/p/d/x-10x10.png"}},
			0,
			"https://cdn.example.test/images/p/d/x-10x10.png",
		},
		{"malformed ref", &model.Image{Asset: &model.Asset{Ref: "image-justanid"}}, 1200, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.ImageURL(tt.img, tt.w); got != tt.want {
				t.Errorf("ImageURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanString(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"  padded  ", "padded"},
		{"zero\u200bwidth", "zerowidth"},
		{"\ufeffbom", "bom"},
		{"non\u00a0breaking", "nonbreaking"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanString(tt.in); got != tt.want {
			t.Errorf("CleanString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
