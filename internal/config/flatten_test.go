package config

import (
	"reflect"
	"testing"
)

func TestFlattenNested(t *testing.T) {
	in := map[string]any{
		"port": 10000,
		"line": map[string]any{
			"channel_secret": "s",
			"skip_verify":    false,
		},
	}
	got := Flatten(in)
	want := map[string]any{
		"port":                10000,
		"line.channel_secret": "s",
		"line.skip_verify":    false,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Flatten = %v, want %v", got, want)
	}
}

func TestUnflattenRoundTrip(t *testing.T) {
	flat := map[string]any{
		"port":                      8080.0,
		"line.channel_secret":       "s",
		"push.operator_user_id":     "U1",
		"line.channel_access_token": "t",
	}
	if got := Flatten(Unflatten(flat)); !reflect.DeepEqual(got, flat) {
		t.Errorf("round trip = %v, want %v", got, flat)
	}
}

func TestMaskSecrets(t *testing.T) {
	flat := map[string]any{
		"line.channel_secret":       "supersecret",
		"line.channel_access_token": "abc",
		"log_level":                 "info",
		"push.operator_user_id":     "",
	}
	got := MaskSecrets(flat)

	if got["line.channel_secret"] != "***cret" {
		t.Errorf("long secret: got %v", got["line.channel_secret"])
	}
	if got["line.channel_access_token"] != "***abc" {
		t.Errorf("short secret: got %v", got["line.channel_access_token"])
	}
	if got["log_level"] != "info" {
		t.Errorf("non-secret changed: got %v", got["log_level"])
	}
}

func TestIsSecretKey(t *testing.T) {
	if !IsSecretKey("line.channel_secret") {
		t.Error("channel secret should be a secret key")
	}
	if IsSecretKey("port") {
		t.Error("port should not be a secret key")
	}
}
