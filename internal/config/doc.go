// Package config handles configuration loading for lingo-relay.
//
// Configuration is loaded from a YAML file with ${VAR_NAME} environment
// variable expansion. The file path comes from the LINGO_CONFIG
// environment variable, falling back to ./config.yaml.
//
// Example:
//
//	server:
//	  http_addr: ":8080"
//	line:
//	  channel_secret: "${LINE_CHANNEL_SECRET}"
//	  channel_access_token: "${LINE_CHANNEL_ACCESS_TOKEN}"
//	openai:
//	  api_key: "${OPENAI_API_KEY}"
//	  model: "gpt-4o-mini"
//	sheets:
//	  spreadsheet_id: "${GOOGLE_SHEET_ID}"
//	  credentials_json: "${GOOGLE_CREDENTIALS}"
//	bot:
//	  passphrase: "${BOT_PASSPHRASE}"
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// Exactly one profile backend is configured: sheets.spreadsheet_id for
// the Google Sheets store, or database.path for the SQLite store.
package config
