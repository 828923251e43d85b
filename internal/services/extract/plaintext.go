package extract

import (
	"regexp"

	"mvdan.cc/xurls/v2"

	"github.com/ternarybob/linkcheck/internal/models"
)

var plaintextURLs = xurls.Strict()

// emailPattern is deliberately loose: it only needs to find candidate
// addresses for mailto: synthesis, not validate them — go-message/mail
// does the real validation downstream (C-mail).
var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

// Plaintext finds bare URLs and email addresses in free text using
// mvdan.cc/xurls/v2, the same linkify library used elsewhere in the
// example corpus for turning prose into clickable references. Email
// matches are synthesized into mailto: RawUri values so they flow through
// the same pipeline as an explicit mailto: link.
func Plaintext(content []byte, yield func(models.RawUri)) error {
	s := string(content)

	for _, match := range plaintextURLs.FindAllString(s, -1) {
		yield(models.RawUri{Text: match, Element: "text", Attribute: "url"})
	}

	for _, match := range emailPattern.FindAllString(s, -1) {
		yield(models.RawUri{Text: "mailto:" + match, Element: "text", Attribute: "email"})
	}

	return nil
}
