package newsapi

import (
	"errors"
	"testing"
)

func TestMapResponseErr(t *testing.T) {
	cases := map[string]string{
		"apiKeyDisabled": "API key disabled",
		"apiKeyInvalid":  "Unknown error",
		"":               "Unknown error",
	}
	for code, reason := range cases {
		err := mapResponseErr(code)
		if err.Kind != KindBadRequest {
			t.Errorf("code %q: kind = %s", code, err.Kind)
		}
		if err.Reason != reason {
			t.Errorf("code %q: reason = %q, want %q", code, err.Reason, reason)
		}
	}
}

func TestErrorIsMatchesKind(t *testing.T) {
	err := newError(KindFormatFailed, reasonFormat, errors.New("invalid character"))
	if !errors.Is(err, ErrFormatFailed) {
		t.Fatalf("expected match on kind")
	}
	if errors.Is(err, ErrRequestFailed) {
		t.Fatalf("unexpected match on a different kind")
	}
	if err.Error() != "failed to format JSON: invalid character" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestParseCountryAndEndpoint(t *testing.T) {
	if c, err := ParseCountry(" FR "); err != nil || c != FR {
		t.Fatalf("ParseCountry(FR) = %s, %v", c, err)
	}
	if _, err := ParseCountry("de"); err == nil {
		t.Fatalf("expected error for unsupported country")
	}
	if e, err := ParseEndpoint("Top-Headlines"); err != nil || e != TopHeadlines {
		t.Fatalf("ParseEndpoint = %s, %v", e, err)
	}
	if _, err := ParseEndpoint("everything"); err == nil {
		t.Fatalf("expected error for unsupported endpoint")
	}
}
