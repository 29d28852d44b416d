package config

import "testing"

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"session": map[string]any{
			"idleTimeout": "12h",
			"cookieName":  "elogbook_scope",
		},
		"redis": map[string]any{
			"keyPrefix": "elogbook:",
		},
		"secretKey": map[string]any{
			"scope": "",
		},
		"auth": map[string]any{
			"secretScheme": "plain",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "SESSION_IDLETIMEOUT", want: "session.idleTimeout"},
		{envKey: "SESSION_COOKIENAME", want: "session.cookieName"},
		{envKey: "REDIS_KEYPREFIX", want: "redis.keyPrefix"},
		{envKey: "SECRETKEY_SCOPE", want: "secretKey.scope"},
		{envKey: "AUTH_SECRETSCHEME", want: "auth.secretScheme"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}
