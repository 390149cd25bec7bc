package extract

import "testing"

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  a   b  ", "a b"},
		{"a\r\nb", "a\nb"},
		{"a\n\n\n\n\nb", "a\n\nb"},
		{"a　 b", "a b"},
		{"\n\n  \n", ""},
	}
	for _, tt := range tests {
		if got := CleanText(tt.in); got != tt.want {
			t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestArticleEmpty(t *testing.T) {
	var nilArticle *Article
	if !nilArticle.Empty() {
		t.Error("nil article should be empty")
	}
	if FromText("   ").Empty() != true {
		t.Error("blank text should be empty")
	}
	a := FromText("  body  ")
	if a.Empty() || a.Content != "body" || a.Source != "text" {
		t.Errorf("Unexpected article: %+v", a)
	}
}
