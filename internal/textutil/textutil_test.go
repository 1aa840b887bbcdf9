package textutil

import "testing"

func TestFold(t *testing.T) {
	tests := map[string]string{
		"  Science   Fiction ": "science fiction",
		"Ciência Ficção":       "ciencia ficcao",
		"FANTASY":              "fantasy",
		"":                     "",
	}
	for in, want := range tests {
		if got := Fold(in); got != want {
			t.Errorf("Fold(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeSegment(t *testing.T) {
	tests := map[string]string{
		"Mystery & Thriller": "Mystery & Thriller",
		"AC/DC: Live?":       "AC_DC_ Live_",
		`a<b>c|d"e*f\g`:      "a_b_c_d_e_f_g",
		"  spaced    out  ":  "spaced out",
		"":                   UnknownSegment,
		"   ":                UnknownSegment,
		"..":                 "__",
		".":                  "_",
		"Jane Doe, Jr.":      "Jane Doe, Jr.",
	}
	for in, want := range tests {
		if got := SanitizeSegment(in); got != want {
			t.Errorf("SanitizeSegment(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsPrintable(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Erwin Schrödinger", true},
		{"", false},
		{"b'\\xfe\\xff'", false},
		{"abc\\x00", false},
		{"ÿþÿþÿþÿþ", false},
		{"\x01\x02\x03abc", false},
	}
	for _, tt := range tests {
		if got := IsPrintable(tt.in); got != tt.want {
			t.Errorf("IsPrintable(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCleanAuthor(t *testing.T) {
	tests := map[string]string{
		"Mark Twain, 1835-1910": "Mark Twain",
		"Jane Doe editor":       "Jane Doe",
		"John Smith, 1954-":     "John Smith",
		"Ursula K. Le Guin.":    "Ursula K. Le Guin",
		"   ":                   "",
	}
	for in, want := range tests {
		if got := CleanAuthor(in); got != want {
			t.Errorf("CleanAuthor(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsValidAuthor(t *testing.T) {
	valid := []string{"Jane Doe", "Erwin Schrödinger", "Plato"}
	invalid := []string{
		"", "Unknown", "calibre", "Z-Library", "x", "12345", "IndirectObject(4, 0)",
		"http://example.com", "www.books.net", "downmagaz.net", "ebooks.com",
	}
	for _, v := range valid {
		if !IsValidAuthor(v) {
			t.Errorf("IsValidAuthor(%q) = false, want true", v)
		}
	}
	for _, v := range invalid {
		if IsValidAuthor(v) {
			t.Errorf("IsValidAuthor(%q) = true, want false", v)
		}
	}
}

func TestResolveAuthor(t *testing.T) {
	if got, ok := ResolveAuthor("Mark Twain, 1835-1910"); !ok || got != "Mark Twain" {
		t.Errorf("ResolveAuthor() = %q, %v", got, ok)
	}
	if _, ok := ResolveAuthor("Unknown author"); ok {
		t.Error("expected blacklisted author to be rejected")
	}
}

func TestAuthorFromFilename(t *testing.T) {
	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"/books/Jane Doe - The Long Road.epub", "Jane Doe", true},
		{"/books/The Long Road (Jane Doe).pdf", "Jane Doe", true},
		{"/books/The Long Road [Jane Doe].pdf", "Jane Doe", true},
		{"/books/Jane Doe - The Long Road (PDFDrive).pdf", "Jane Doe", true},
		{"/books/the_hobbit_John_Tolkien.pdf", "John Tolkien", true},
		{"/books/untitled.pdf", "", false},
		{"/books/Unknown - Unknown.pdf", "", false},
	}
	for _, tt := range tests {
		got, ok := AuthorFromFilename(tt.path)
		if ok != tt.ok || got != tt.want {
			t.Errorf("AuthorFromFilename(%q) = %q, %v; want %q, %v", tt.path, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCleanLookupTitle(t *testing.T) {
	tests := map[string]string{
		"Dune_Frank_Herbert_1965 (PDFDrive)":    "Dune Frank Herbert",
		"@bookbot The Hobbit [retail] epub":     "The Hobbit",
		"Sapiens - A Brief History (z-lib.org)": "Sapiens A Brief History",
		"It (1986)":                             "",
		"ab":                                    "",
	}
	for in, want := range tests {
		if got := CleanLookupTitle(in); got != want {
			t.Errorf("CleanLookupTitle(%q) = %q, want %q", in, got, want)
		}
	}
	if got := LookupTitleFromPath("/x/Deep_Work.pdf"); got != "Deep Work" {
		t.Errorf("LookupTitleFromPath() = %q", got)
	}
	if got := DisplayTitleFromPath("/x/deep__work.epub"); got != "deep work" {
		t.Errorf("DisplayTitleFromPath() = %q", got)
	}
}
