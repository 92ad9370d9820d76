package security

import "testing"

// TestFieldSanitizer_RemovesScriptTags はscriptタグが除去されることを検証する。
func TestFieldSanitizer_RemovesScriptTags(t *testing.T) {
	s := NewFieldSanitizer()

	got := s.Sanitize(`Paris <script>alert("xss")</script>`)
	if got != "Paris" {
		t.Errorf("Sanitize = %q, want %q", got, "Paris")
	}
}

// TestFieldSanitizer_RemovesAllTags はプレーンテキストポリシーが
// 無害なタグも含め全タグを除去することを検証する。
func TestFieldSanitizer_RemovesAllTags(t *testing.T) {
	s := NewFieldSanitizer()

	got := s.Sanitize(`<b>Visit</b> the <a href="https://example.com">museum</a>`)
	if got != "Visit the museum" {
		t.Errorf("Sanitize = %q, want %q", got, "Visit the museum")
	}
}

// TestFieldSanitizer_PlainTextPassthrough はプレーンテキストがそのまま通ることを検証する。
func TestFieldSanitizer_PlainTextPassthrough(t *testing.T) {
	s := NewFieldSanitizer()

	got := s.Sanitize("Day trip to Kyoto")
	if got != "Day trip to Kyoto" {
		t.Errorf("Sanitize = %q, want %q", got, "Day trip to Kyoto")
	}
}

// TestFieldSanitizer_EmptyInput は空入力に空文字列を返すことを検証する。
func TestFieldSanitizer_EmptyInput(t *testing.T) {
	s := NewFieldSanitizer()

	if got := s.Sanitize(""); got != "" {
		t.Errorf("Sanitize(\"\") = %q, want empty", got)
	}
}

// TestFieldSanitizer_Idempotent は同一入力に対し常に同一出力を返すことを検証する。
func TestFieldSanitizer_Idempotent(t *testing.T) {
	s := NewFieldSanitizer()

	input := `Tokyo <img src="x" onerror="alert(1)"> tower`
	first := s.Sanitize(input)
	second := s.Sanitize(first)
	if first != second {
		t.Errorf("sanitize not idempotent: %q != %q", first, second)
	}
}
