package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"
)

// CookieName はセッションクッキーの名前です。
const CookieName = "todo_session"

// ErrBadCookie は署名不正・形式不正のクッキー値を表します。
var ErrBadCookie = errors.New("invalid session cookie")

// Codec はセッションクッキーの値を署名付きで符号化・復号します。
// 値の形式は "<token>.<HMAC-SHA256(secret, token)>" で、改ざんされた
// クッキーはストアを引く前に弾きます。
type Codec struct {
	secret []byte
}

// NewCodec は署名鍵を持つ Codec を作成します。
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Encode はトークンを署名付きのクッキー値にします。
func (c *Codec) Encode(token string) string {
	return token + "." + c.sign(token)
}

// Decode はクッキー値を検証し、トークンを取り出します。
func (c *Codec) Decode(value string) (string, error) {
	token, sig, ok := strings.Cut(value, ".")
	if !ok || token == "" {
		return "", ErrBadCookie
	}
	expected := c.sign(token)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(sig)) != 1 {
		return "", ErrBadCookie
	}
	return token, nil
}

func (c *Codec) sign(token string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}
