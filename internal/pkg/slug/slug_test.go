package slug

import "testing"

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Hello World":          "hello-world",
		"  Berita   Terkini  ": "berita-terkini",
		"Café Über":            "cafe-uber",
		"snake_case_title":     "snake-case-title",
		"Already-a-slug":       "already-a-slug",
	}
	for in, want := range cases {
		if got := Make(in); got != want {
			t.Fatalf("Make(%q)=%q want=%q", in, got, want)
		}
	}
}

func TestMake_Idempotent(t *testing.T) {
	for _, in := range []string{"Hello World", "Politik & Ekonomi", "Ünïcödé Tïtlé"} {
		once := Make(in)
		if twice := Make(once); twice != once {
			t.Fatalf("Make(Make(%q))=%q want=%q", in, twice, once)
		}
	}
}
