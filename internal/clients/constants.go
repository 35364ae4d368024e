package clients

const (
	APIFY_BASE_URL        = "https://api.apify.com/v2"
	HF_INFERENCE_BASE_URL = "https://api-inference.huggingface.co/models/"
	TIKTOK_COMMENT_URL    = "https://www.tiktok.com/api/comment/list/"

	// Browser-mimicking User-Agent; TikTok's web API rejects obvious bots.
	BROWSER_USER_AGENT = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)
