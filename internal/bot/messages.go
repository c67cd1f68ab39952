// ABOUTME: User-facing reply copy for the dispatcher
// ABOUTME: Traditional Chinese, matching the audience of the original deployment

package bot

const (
	replyVerified = "✅ 驗證成功！請使用 /set 設定目標語言，例如：\n/set 日文 韓文"

	replyNeedPassphrase = "請先輸入通關密語以啟用翻譯功能。"

	replySetUsage = "請使用正確的格式設定語言：\n/set 語言1 語言2\n例如：/set 日文 韓文"

	replyNeedLanguages = "尚未設定目標語言，請先使用 /set 設定，例如：\n/set 日文 韓文"

	replyTryAgain = "處理時發生錯誤，請稍後再試。"
)
