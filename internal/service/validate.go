package service

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrUsernameFormat  = errors.New("username must be 3-20 characters of letters, digits and underscore")
	ErrWeakPassword    = errors.New("password must be at least 8 characters with upper, lower, digit and special character")
	ErrEmailFormat     = errors.New("a valid email address is required")
	ErrEmailDisposable = errors.New("disposable email addresses are not accepted")
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	upperRe    = regexp.MustCompile(`[A-Z]`)
	lowerRe    = regexp.MustCompile(`[a-z]`)
	digitRe    = regexp.MustCompile(`[0-9]`)
	specialRe  = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// 一次性邮箱域名，注册时直接拒绝
var disposableDomains = map[string]struct{}{
	"tempmail.com": {}, "temp-mail.org": {}, "throwawaymail.com": {},
	"yopmail.com": {}, "mailinator.com": {}, "10minutemail.com": {},
	"guerrillamail.com": {}, "sharklasers.com": {}, "grr.la": {},
	"fakeinbox.com": {}, "safemail.com": {}, "tempmail.net": {},
}

// UsernameValid 3-20 位字母、数字、下划线
func UsernameValid(username string) bool {
	return usernameRe.MatchString(username)
}

// PasswordStrong 至少 8 位且含大写、小写、数字、特殊字符
func PasswordStrong(password string) bool {
	return len(password) >= 8 &&
		upperRe.MatchString(password) &&
		lowerRe.MatchString(password) &&
		digitRe.MatchString(password) &&
		specialRe.MatchString(password)
}

// CheckEmail 格式校验 + 一次性邮箱域名黑名单
func CheckEmail(email string) error {
	if !emailRe.MatchString(email) {
		return ErrEmailFormat
	}
	domain := strings.ToLower(email[strings.LastIndex(email, "@")+1:])
	if _, bad := disposableDomains[domain]; bad {
		return ErrEmailDisposable
	}
	return nil
}
