package masker

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type squareConfig struct {
	AccessToken string `masked:"true"`
	LocationID  string
	Timeout     time.Duration
}

type adminConfig struct {
	PasswordHash string `masked:"true"`
	hidden       string
}

type appConfig struct {
	squareConfig
	Admin adminConfig
	Chats []int64
}

func TestMaskSensitiveData(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"secret", "s****t"},
		{"ab", "****"},
		{"a", "****"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := maskSensitiveData(tt.in); got != tt.want {
			t.Errorf("maskSensitiveData(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMaskStructFields(t *testing.T) {
	cfg := appConfig{
		squareConfig: squareConfig{AccessToken: "EAAAtoken", LocationID: "L1", Timeout: 5 * time.Second},
		Admin:        adminConfig{PasswordHash: "$2a$10$hash", hidden: "x"},
		Chats:        []int64{1, 2},
	}
	got := maskStructFields(reflect.ValueOf(cfg), reflect.TypeOf(cfg))

	// встроенная неэкспортируемая структура пропускается
	if _, ok := got["squareConfig"]; ok {
		t.Error("unexported embedded struct should be skipped")
	}

	admin, ok := got["Admin"].(map[string]interface{})
	if !ok {
		t.Fatalf("Admin not mapped: %#v", got["Admin"])
	}
	if admin["PasswordHash"] != "$****h" {
		t.Errorf("PasswordHash = %v", admin["PasswordHash"])
	}
	if _, ok := admin["hidden"]; ok {
		t.Error("unexported field should be skipped")
	}
	if !reflect.DeepEqual(got["Chats"], []int64{1, 2}) {
		t.Errorf("Chats = %v", got["Chats"])
	}
}

func TestMaskStructFields_Duration(t *testing.T) {
	cfg := squareConfig{AccessToken: "EAAAtoken", LocationID: "L1", Timeout: 5 * time.Second}
	got := maskStructFields(reflect.ValueOf(cfg), reflect.TypeOf(cfg))

	if got["Timeout"] != "5s" {
		t.Errorf("Timeout = %v, want 5s", got["Timeout"])
	}
	if got["AccessToken"] != "E****n" {
		t.Errorf("AccessToken = %v", got["AccessToken"])
	}
	if got["LocationID"] != "L1" {
		t.Errorf("LocationID = %v", got["LocationID"])
	}
}

func TestLogConfigs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	cfg := &squareConfig{AccessToken: "EAAAtoken"}
	if err := LogConfigs(logger, cfg); err != nil {
		t.Fatalf("LogConfigs: %v", err)
	}
	if logs.Len() != 1 {
		t.Fatalf("entries = %d, want 1", logs.Len())
	}
	fields := logs.All()[0].ContextMap()
	m, ok := fields["squareConfig"].(map[string]interface{})
	if !ok {
		t.Fatalf("fields = %#v", fields)
	}
	if m["AccessToken"] != "E****n" {
		t.Errorf("token leaked: %v", m["AccessToken"])
	}
}

func TestLogConfigs_NotPointer(t *testing.T) {
	logger := zap.NewNop()
	if err := LogConfigs(logger, squareConfig{}); !errors.Is(err, ErrConfigNotPointer) {
		t.Errorf("expected ErrConfigNotPointer, got %v", err)
	}
	s := "x"
	if err := LogConfigs(logger, &s); !errors.Is(err, ErrConfigNotPointer) {
		t.Errorf("expected ErrConfigNotPointer for non-struct, got %v", err)
	}
}
