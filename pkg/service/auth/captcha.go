package auth

import (
	"github.com/mojocn/base64Captcha"
)

// captchaStore keeps generated captcha answers in memory with the library's
// default 10 minute expiry. Login verification consumes the entry.
var captchaStore = base64Captcha.DefaultMemStore

// newCaptcha generates a 4-digit image captcha and returns its id plus the
// image as a base64 data URI.
func newCaptcha() (id, image string, err error) {
	driver := base64Captcha.NewDriverDigit(80, 240, 4, 0.7, 80)
	captcha := base64Captcha.NewCaptcha(driver, captchaStore)
	id, image, _, err = captcha.Generate()
	return id, image, err
}

// verifyCaptcha checks the answer and clears the entry regardless of outcome
// so an id cannot be replayed.
func verifyCaptcha(id, answer string) bool {
	return captchaStore.Verify(id, answer, true)
}
