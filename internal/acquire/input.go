package acquire

import (
	"fmt"
	"net/url"
	"strings"

	"mvdan.cc/xurls/v2"
)

// ExtractURL finds the first http(s) URL in free-form user input, so that
// pasting a citation line or a sentence with a link still works.
func ExtractURL(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrNoURL
	}

	httpURLRe, err := xurls.StrictMatchingScheme(`https?://`)
	if err != nil {
		return "", fmt.Errorf("create regexp: %w", err)
	}

	found := strings.TrimSpace(httpURLRe.FindString(input))
	if found == "" {
		return "", ErrNoURL
	}

	return found, nil
}

func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse URL: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %q", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("URL has no host: %q", rawURL)
	}

	return nil
}
