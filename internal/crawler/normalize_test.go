package crawler

import "testing"

func TestNormalize(t *testing.T) {
	const origin = "https://example.com/dir/page.html"

	cases := []struct {
		name string
		href string
		want string
		ok   bool
	}{
		{"absolute http", "http://other.com/a", "http://other.com/a", true},
		{"absolute https different host", "https://cdn.example.net/x", "https://cdn.example.net/x", true},
		{"protocol relative", "//cdn.example.net/x.js", "https://cdn.example.net/x.js", true},
		{"root relative", "/about", "https://example.com/about", true},
		{"bare relative rejected", "page2.html", "", false},
		{"fragment only rejected", "#section", "", false},
		{"mailto rejected", "mailto:a@example.com", "", false},
		{"javascript rejected", "javascript:void(0)", "", false},
		{"empty rejected", "", "", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := Normalize(c.href, origin)
			if ok != c.ok {
				t.Fatalf("Normalize(%q) ok = %v, want %v", c.href, ok, c.ok)
			}
			if ok && got != c.want {
				t.Errorf("Normalize(%q) = %q, want %q", c.href, got, c.want)
			}
		})
	}
}

func TestNormalize_TrailingSlashOrigin(t *testing.T) {
	got, ok := Normalize("/x", "https://example.com/")
	if !ok || got != "https://example.com/x" {
		t.Errorf("got %q, %v", got, ok)
	}
}
