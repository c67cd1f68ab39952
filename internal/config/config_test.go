// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML loading, env var expansion, defaults, and validation

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validConfig = `
server:
  http_addr: ":9090"

line:
  channel_secret: "secret-123"
  channel_access_token: "token-456"

openai:
  api_key: "sk-test"
  model: "gpt-4o-mini"

sheets:
  spreadsheet_id: "sheet-789"

bot:
  passphrase: "開門"

logging:
  level: "debug"
  format: "json"
`

func TestLoad_ValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.HTTPAddr)
	assert.Equal(t, "secret-123", cfg.Line.ChannelSecret)
	assert.Equal(t, "token-456", cfg.Line.ChannelAccessToken)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "sheet-789", cfg.Sheets.SpreadsheetID)
	assert.Equal(t, "開門", cfg.Bot.Passphrase)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
line:
  channel_secret: "s"
  channel_access_token: "t"
openai:
  api_key: "k"
database:
  path: "./profiles.db"
`))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.HTTPAddr)
	assert.Equal(t, DefaultPassphrase, cfg.Bot.Passphrase)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("TEST_LINE_SECRET", "expanded-secret")
	t.Setenv("TEST_LINE_TOKEN", "expanded-token")

	cfg, err := Load(writeConfig(t, `
line:
  channel_secret: "${TEST_LINE_SECRET}"
  channel_access_token: "${TEST_LINE_TOKEN}"
openai:
  api_key: "k"
sheets:
  spreadsheet_id: "sheet"
`))
	require.NoError(t, err)
	assert.Equal(t, "expanded-secret", cfg.Line.ChannelSecret)
	assert.Equal(t, "expanded-token", cfg.Line.ChannelAccessToken)
}

func TestLoad_UnsetEnvVarFailsValidation(t *testing.T) {
	// ${UNSET} expands to empty, which the required-field check catches.
	_, err := Load(writeConfig(t, `
line:
  channel_secret: "${DEFINITELY_NOT_SET_LINGO_TEST}"
  channel_access_token: "t"
openai:
  api_key: "k"
sheets:
  spreadsheet_id: "sheet"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel_secret")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "line: [unclosed"))
	assert.Error(t, err)
}

func TestValidate_ExactlyOneBackend(t *testing.T) {
	base := Config{
		Line:   LineConfig{ChannelSecret: "s", ChannelAccessToken: "t"},
		OpenAI: OpenAIConfig{APIKey: "k"},
	}

	neither := base
	assert.Error(t, neither.Validate())

	both := base
	both.Sheets.SpreadsheetID = "sheet"
	both.Database.Path = "db"
	assert.Error(t, both.Validate())

	sheetsOnly := base
	sheetsOnly.Sheets.SpreadsheetID = "sheet"
	assert.NoError(t, sheetsOnly.Validate())

	dbOnly := base
	dbOnly.Database.Path = "db"
	assert.NoError(t, dbOnly.Validate())
}

func TestCredentials_Resolution(t *testing.T) {
	inline := SheetsConfig{CredentialsJSON: `{"type":"service_account"}`}
	got, err := inline.Credentials()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"service_account"}`, string(got))

	t.Setenv("GOOGLE_CREDENTIALS", `{"type":"from_env"}`)
	fromEnv := SheetsConfig{}
	got, err = fromEnv.Credentials()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"from_env"}`, string(got))
	t.Setenv("GOOGLE_CREDENTIALS", "")

	path := filepath.Join(t.TempDir(), "sa.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"from_file"}`), 0600))
	fromFile := SheetsConfig{CredentialsFile: path}
	got, err = fromFile.Credentials()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"from_file"}`, string(got))

	none := SheetsConfig{}
	_, err = none.Credentials()
	assert.Error(t, err)
}
