package model

import "testing"

func TestPostPath(t *testing.T) {
	tests := []struct {
		slug string
		want string
	}{
		{"hello-world", "/hello-world"},
		{"caf\u00e9", "/caf%C3%A9"},
		{"a b", "/a%20b"},
	}

	for _, tt := range tests {
		if got := PostPath(tt.slug); got != tt.want {
			t.Errorf("PostPath(%q) = %q, want %q", tt.slug, got, tt.want)
		}
	}
}

func TestPagePath(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "/"},
		{1, "/"},
		{2, "/blog/2"},
		{12, "/blog/12"},
	}

	for _, tt := range tests {
		if got := PagePath(tt.n); got != tt.want {
			t.Errorf("PagePath(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"", ""},
		{"/img/a.png", "https://example.com/img/a.png"},
		{"img/a.png", "https://example.com/img/a.png"},
		{"https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
	}

	for _, tt := range tests {
		if got := AbsoluteURL("https://example.com/", tt.path); got != tt.want {
			t.Errorf("AbsoluteURL(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
