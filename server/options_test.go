package server

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func parseOptionsFrom(t *testing.T, form url.Values, defaults []string) (requestOptions, error) {
	t.Helper()
	r := httptest.NewRequest("POST", "/ocr", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return parseOptions(r, defaults)
}

func TestParseOptionsDefaults(t *testing.T) {
	opts, err := parseOptionsFrom(t, url.Values{}, []string{"eng"})
	if err != nil {
		t.Fatalf("parseOptions() error = %v", err)
	}
	if opts.ocrType != ocrTypePlain || opts.render || opts.region != nil || opts.psm != nil || opts.dpi != 0 {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
	if len(opts.languages) != 1 || opts.languages[0] != "eng" {
		t.Fatalf("languages = %v", opts.languages)
	}
}

func TestParseOptionsRejectsBadValues(t *testing.T) {
	cases := []url.Values{
		{"ocr_type": {"fancy"}},
		{"render": {"maybe"}},
		{"render": {"true"}}, // render without format type
		{"psm": {"-2"}},
		{"psm": {"six"}},
		{"dpi": {"0"}},
		{"dpi": {"high"}},
		{"ocr_box": {"1,2,3"}},
	}
	for _, form := range cases {
		if _, err := parseOptionsFrom(t, form, nil); err == nil {
			t.Fatalf("parseOptions(%v) expected error", form)
		}
	}
}

func TestParseOptionsFormatSetsHOCR(t *testing.T) {
	opts, err := parseOptionsFrom(t, url.Values{"ocr_type": {"format"}, "render": {"true"}}, nil)
	if err != nil {
		t.Fatalf("parseOptions() error = %v", err)
	}
	if !opts.render || opts.ocrType != ocrTypeFormat {
		t.Fatalf("unexpected options: %+v", opts)
	}
	inputOpts := opts.inputOptions()
	if len(inputOpts) == 0 {
		t.Fatalf("expected input options for format type")
	}
}
