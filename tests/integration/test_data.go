package integration

import (
	"fmt"
	"regexp"
	"time"
)

// TestUser generates unique test user credentials using a timestamp
func TestUser(suffix string) (email, password string) {
	ts := time.Now().UnixNano()
	email = fmt.Sprintf("test-%d-%s@example.com", ts, suffix)
	password = "TestPassword123!"
	return
}

var confirmLinkRe = regexp.MustCompile(`/confirm/([0-9a-f]+)`)
var resetLinkRe = regexp.MustCompile(`/resetpassword/([0-9a-f-]+)`)

// ExtractConfirmToken pulls the verify token out of a confirmation email body
func ExtractConfirmToken(emailBody string) string {
	m := confirmLinkRe.FindStringSubmatch(emailBody)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// ExtractResetSecret pulls the reset secret out of a reset email body
func ExtractResetSecret(emailBody string) string {
	m := resetLinkRe.FindStringSubmatch(emailBody)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
