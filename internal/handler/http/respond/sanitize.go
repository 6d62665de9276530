package respond

import (
	"regexp"
)

var (
	// Webhook URL のトークン部分（Slack互換のincoming webhook）
	webhookPathPattern = regexp.MustCompile(`(hooks\.[a-zA-Z0-9.-]+/services)/[A-Za-z0-9/_-]+`)

	// データベースパスワードパターン（DSN内）
	dbPasswordPattern = regexp.MustCompile(`://([^:/]+):([^@]+)@`)

	// JWT署名シークレットが環境変数名ごと漏れるケース
	jwtSecretPattern = regexp.MustCompile(`(?i)(jwt_secret|smtp_password)=\S+`)
)

// SanitizeError は機密情報をマスクしたエラーメッセージを返す
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()

	// Webhook URL のマスク（トークン部分のみ）
	msg = webhookPathPattern.ReplaceAllString(msg, "$1/****")

	// DBパスワードのマスク
	msg = dbPasswordPattern.ReplaceAllString(msg, "://$1:****@")

	// シークレット値のマスク
	msg = jwtSecretPattern.ReplaceAllString(msg, "$1=****")

	return msg
}
