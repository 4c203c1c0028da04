package user

import (
	"crypto/rand"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// hashCost は bcrypt のコストパラメータです。ソルトは bcrypt が
// 呼び出しごとにランダム生成します。
const hashCost = 10

// dummyHash はユーザー名が存在しない場合の比較対象です。
// 存在するユーザーとの応答時間差からユーザー名の有無を推測されないよう、
// 不明なユーザー名でも必ず一度 bcrypt 比較を行います。起動時に
// ランダムな値から作るため、どのパスワードとも照合しません。
var dummyHash = mustDummyHash()

func mustDummyHash() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(buf)), hashCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}

// HashPassword は平文パスワードの bcrypt ハッシュを返します。
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// checkPassword はハッシュと平文の照合結果を返します。
// bcrypt.CompareHashAndPassword はハッシュ長に対して定数時間で比較します。
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
