package mail

import (
	"context"
	"testing"

	"github.com/ternarybob/linkcheck/internal/models"
)

func mustMailUri(t *testing.T, s string) models.Uri {
	t.Helper()
	u, err := models.NewUri(s)
	if err != nil {
		t.Fatalf("NewUri(%q): %v", s, err)
	}
	return u
}

func TestCheckValidAddressWithoutProbe(t *testing.T) {
	c := &Checker{ProbeSMTP: false}
	status := c.Check(context.Background(), mustMailUri(t, "mailto:user@example.com"))
	if !status.IsSuccess() {
		t.Errorf("expected success for syntactically valid address, got %s", status.String())
	}
}

func TestCheckInvalidAddress(t *testing.T) {
	c := &Checker{ProbeSMTP: false}
	status := c.Check(context.Background(), mustMailUri(t, "mailto:not-an-address"))
	if status.IsSuccess() {
		t.Error("expected failure for a mailto: target with no @ domain")
	}
}

func TestCheckStripsQueryParameters(t *testing.T) {
	c := &Checker{ProbeSMTP: false}
	status := c.Check(context.Background(), mustMailUri(t, "mailto:user@example.com?subject=Hi&body=Hello"))
	if !status.IsSuccess() {
		t.Errorf("expected success ignoring subject/body query params, got %s", status.String())
	}
}

func TestDomainOf(t *testing.T) {
	if got := domainOf("user@example.com"); got != "example.com" {
		t.Errorf("domainOf() = %q, want example.com", got)
	}
	if got := domainOf("no-at-sign"); got != "" {
		t.Errorf("domainOf() = %q, want empty", got)
	}
}
