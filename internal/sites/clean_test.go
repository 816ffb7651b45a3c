package sites

import (
	"strings"
	"testing"
)

func TestCleanMistralAnswer_FencesCode(t *testing.T) {
	html := `<div class="prose"><p>Use this:</p><pre><code>fmt.Println("hi")</code></pre></div>`
	got, err := cleanMistralAnswer(html)
	if err != nil {
		t.Fatalf("cleanMistralAnswer() error = %v", err)
	}
	want := "Use this:```\nfmt.Println(\"hi\")\n```"
	if got != want {
		t.Errorf("cleaned = %q, want %q", got, want)
	}
}

func TestCleanMistralAnswer_StripsStickyToolbar(t *testing.T) {
	html := `<div class="prose"><div class="sticky"><span>python</span><button>Copy</button></div><pre><code>print(1)</code></pre></div>`
	got, err := cleanMistralAnswer(html)
	if err != nil {
		t.Fatalf("cleanMistralAnswer() error = %v", err)
	}
	if strings.Contains(got, "Copy") || strings.Contains(got, "python") {
		t.Errorf("toolbar text leaked into cleaned answer: %q", got)
	}
	if !strings.Contains(got, "```\nprint(1)\n```") {
		t.Errorf("code block not fenced: %q", got)
	}
}

func TestCleanGeminiAnswer_KeepsOnlyCodeFromHighlightWrapper(t *testing.T) {
	html := `<div class="turn-content"><p>Example:</p>` +
		`<div class="syntax-highlighted-code"><div class="line-numbers">99</div><code>a := 1</code><button>Copy</button></div></div>`
	got, err := cleanGeminiAnswer(html)
	if err != nil {
		t.Fatalf("cleanGeminiAnswer() error = %v", err)
	}
	if strings.Contains(got, "Copy") || strings.Contains(got, "99") {
		t.Errorf("wrapper decoration leaked: %q", got)
	}
	if !strings.Contains(got, "```\na := 1\n```") {
		t.Errorf("code block not fenced: %q", got)
	}
}

func TestCleanDuckDuckGoAnswer_NormalizesLineEndings(t *testing.T) {
	html := "<div heading=\"GPT\"><p>line one\r\nline two</p></div>"
	got, err := cleanDuckDuckGoAnswer(html)
	if err != nil {
		t.Fatalf("cleanDuckDuckGoAnswer() error = %v", err)
	}
	if strings.Contains(got, "\r") {
		t.Errorf("carriage returns survived cleanup: %q", got)
	}
}

func TestCleanAnswer_PlainTextPassthrough(t *testing.T) {
	got, err := cleanGrokAnswer(`<div class="message-bubble">  just text  </div>`)
	if err != nil {
		t.Fatalf("cleanGrokAnswer() error = %v", err)
	}
	if got != "just text" {
		t.Errorf("cleaned = %q, want %q", got, "just text")
	}
}

func TestCleanAnswer_MultipleCodeBlocks(t *testing.T) {
	html := `<div class="prose"><code>one</code><p>and</p><code>two</code></div>`
	got, err := cleanMistralAnswer(html)
	if err != nil {
		t.Fatalf("cleanMistralAnswer() error = %v", err)
	}
	if strings.Count(got, "```") != 4 {
		t.Errorf("expected two fenced blocks (4 fence markers), got %q", got)
	}
}

func TestRegistry(t *testing.T) {
	if _, err := New("no-such-site", nil); err == nil {
		t.Error("New() accepted an unregistered site name")
	}
	names := Names()
	for _, want := range []string{"grok", "mistral", "gemini", "duckduckgo"} {
		found := false
		for _, name := range names {
			if name == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Names() = %v, missing %q", names, want)
		}
	}
	driver, err := New(" Mistral ", nil)
	if err != nil {
		t.Fatalf("New() rejected padded mixed-case name: %v", err)
	}
	if driver.Name() != "mistral" {
		t.Errorf("driver.Name() = %q, want %q", driver.Name(), "mistral")
	}
}
