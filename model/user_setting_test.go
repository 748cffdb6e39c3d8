package model

import "testing"

func TestGetAccessTokens(t *testing.T) {
	setting := &UserSetting{
		UserID: 1,
		Key:    UserSettingKey_USER_SETTING_ACCESS_TOKENS,
		Value:  `{"access_tokens":[{"access_token":"token-a","description":"cli"}]}`,
	}

	tokens := setting.GetAccessTokens()
	if tokens == nil {
		t.Fatal("Expected access tokens, got nil")
	}
	if len(tokens.AccessTokens) != 1 {
		t.Fatalf("Expected 1 access token, got %d", len(tokens.AccessTokens))
	}
	if tokens.AccessTokens[0].AccessToken != "token-a" {
		t.Errorf("Unexpected token: %q", tokens.AccessTokens[0].AccessToken)
	}
}

func TestGetAccessTokensInvalidValue(t *testing.T) {
	setting := &UserSetting{
		UserID: 1,
		Key:    UserSettingKey_USER_SETTING_ACCESS_TOKENS,
		Value:  "not json",
	}
	if tokens := setting.GetAccessTokens(); tokens != nil {
		t.Errorf("Expected nil for invalid value, got %v", tokens)
	}
}
