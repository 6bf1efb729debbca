package collect

import (
	"strings"
	"testing"
)

func TestContentHashStable(t *testing.T) {
	t.Parallel()

	a := contentHash("Title", "Body")
	b := contentHash("Title", "Body")
	if a != b {
		t.Fatal("same input must hash identically")
	}

	if contentHash("Title", "Other body") == a {
		t.Fatal("different content must hash differently")
	}

	if len(a) != 64 {
		t.Fatalf("expected hex sha256, got %d chars", len(a))
	}
}

func TestCleanTextStripsMarkup(t *testing.T) {
	t.Parallel()

	got := cleanText(`<p>Hello   <b>world</b></p>  <script>ignored?</script>`)
	if !strings.HasPrefix(got, "Hello world") {
		t.Fatalf("unexpected cleaned text: %q", got)
	}

	if cleanText("") != "" {
		t.Fatal("empty input must stay empty")
	}

	if got := cleanText("plain text"); got != "plain text" {
		t.Fatalf("plain text mangled: %q", got)
	}
}

func TestFirstImage(t *testing.T) {
	t.Parallel()

	html := `<p>intro</p><img src="https://cdn.example.com/a.png"><img src="https://cdn.example.com/b.png">`
	if got := firstImage(html); got != "https://cdn.example.com/a.png" {
		t.Fatalf("unexpected image: %q", got)
	}

	if firstImage("<p>no images</p>") != "" {
		t.Fatal("expected empty src when no image present")
	}
}

func TestQualityScore(t *testing.T) {
	t.Parallel()

	// Empty item scores the base only.
	if got := qualityScore("", ""); got != 5.0 {
		t.Fatalf("expected base score 5.0, got %v", got)
	}

	// Well-sized title that is not shouting, with substantial content,
	// collects every bonus.
	title := "A measured look at container scheduling"
	content := strings.Repeat("useful detail ", 40)
	if got := qualityScore(title, content); got != 9.0 {
		t.Fatalf("expected full-bonus score 9.0, got %v", got)
	}

	// All-caps title loses the casing bonus.
	allCaps := strings.ToUpper(title)
	if qualityScore(allCaps, "short") >= qualityScore(title, "short") {
		t.Fatal("expected all-caps title to score lower")
	}
}
