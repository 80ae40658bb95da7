package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	var (
		addr = "localhost:8080"
		dsn  = "host=localhost user=postgres password=postgres dbname=postgres sslmode=disable"
		key  = "c29tZV9zZWNyZXQ="
		// 32 zero bytes
		msgKey = "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA="
		orig   = []string{"http://localhost:3000"}
	)

	tcases := []struct {
		name   string
		addr   string
		dsn    string
		key    string
		msgKey string
		orig   []string
		err    bool
	}{
		{
			name:   "valid config",
			addr:   addr,
			dsn:    dsn,
			key:    key,
			msgKey: msgKey,
			orig:   orig,
			err:    false,
		},
		{
			name:   "empty address",
			addr:   "",
			dsn:    dsn,
			key:    key,
			msgKey: msgKey,
			orig:   orig,
			err:    true,
		},
		{
			name:   "empty DSN",
			addr:   addr,
			dsn:    "",
			key:    key,
			msgKey: msgKey,
			orig:   orig,
			err:    true,
		},
		{
			name:   "empty signing key",
			addr:   addr,
			dsn:    dsn,
			key:    "",
			msgKey: msgKey,
			orig:   orig,
			err:    true,
		},
		{
			name:   "empty message key",
			addr:   addr,
			dsn:    dsn,
			key:    key,
			msgKey: "",
			orig:   orig,
			err:    true,
		},
		{
			name:   "short message key",
			addr:   addr,
			dsn:    dsn,
			key:    key,
			msgKey: key,
			orig:   orig,
			err:    true,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			config, err := NewConfig(tc.addr, tc.dsn, tc.key, tc.msgKey, tc.orig)
			if tc.err {
				assert.Error(t, err, "expected error for config: %s", tc.name)
				return
			}
			assert.NoError(t, err, "expected no error for config: %s", tc.name)

			assert.Equal(t, tc.addr, config.ServerAddr, "expected server address to match")
			assert.Equal(t, tc.dsn, config.DatabaseDSN, "expected database DSN to match")
			assert.Equal(t, tc.orig, config.AllowedOrigins, "expected allowed origins to match")
			assert.NotEmpty(t, config.SigningKey, "expected signing key to be decoded and not empty")
			assert.Len(t, config.MessageKey, 32, "expected message key to be 32 bytes")
			assert.True(t, config.MigrateOnStart, "expected migrations to be enabled by default")
		})
	}
}

func Test_decodeSigningKey(t *testing.T) {
	tcases := []struct {
		name         string
		base64Secret string
		expectedKey  []byte
		expectError  bool
	}{
		{
			name:         "valid base64 secret",
			base64Secret: "c29tZV9zZWNyZXQ=",
			expectedKey:  []byte("some_secret"),
			expectError:  false,
		},
		{
			name:         "invalid base64 secret",
			base64Secret: "invalid_base64",
			expectedKey:  nil,
			expectError:  true,
		},
		{
			name:         "empty base64 secret",
			base64Secret: "",
			expectedKey:  nil,
			expectError:  true,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			key, err := decodeSigningSecret(tc.base64Secret)
			if tc.expectError {
				assert.Error(t, err, "expected error for base64 secret: %s", tc.base64Secret)
			} else {
				assert.NoError(t, err, "expected no error for base64 secret: %s", tc.base64Secret)
				assert.Equal(t, tc.expectedKey, key, "expected decoded key to match for base64 secret: %s", tc.base64Secret)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		fc, err := LoadFile("")
		require.NoError(t, err)
		assert.Equal(t, &FileConfig{}, fc)
	})

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "learnlink.yaml")
		content := "addr: \":9000\"\n" +
			"dsn: postgres://localhost/learnlink\n" +
			"allowed_origins:\n  - http://localhost:5173\n" +
			"migrate_on_start: false\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		fc, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, ":9000", fc.Addr)
		assert.Equal(t, "postgres://localhost/learnlink", fc.DSN)
		assert.Equal(t, []string{"http://localhost:5173"}, fc.AllowedOrigins)
		require.NotNil(t, fc.MigrateOnStart)
		assert.False(t, *fc.MigrateOnStart)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("addr: [unterminated"), 0o600))

		_, err := LoadFile(path)
		assert.Error(t, err)
	})
}
