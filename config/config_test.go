package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParse_Defaults(t *testing.T) {
	conf, err := Parse([]byte("app:\n  env: test\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if conf.Server.Http != 8080 {
		t.Errorf("http port = %d, want 8080", conf.Server.Http)
	}
	if conf.Ledger.SweepInterval != 30*time.Second {
		t.Errorf("sweep interval = %s, want 30s", conf.Ledger.SweepInterval)
	}
	if conf.Ledger.PendingTimeout != 60*time.Second {
		t.Errorf("pending timeout = %s, want 60s", conf.Ledger.PendingTimeout)
	}
	if conf.Ledger.RequestWindow != 24*time.Hour {
		t.Errorf("request window = %s, want 24h", conf.Ledger.RequestWindow)
	}
	if conf.Ledger.MaxScanAmount != 100000 || conf.Ledger.MaxRequestPoints != 100000 {
		t.Errorf("ledger limits = %d/%d", conf.Ledger.MaxScanAmount, conf.Ledger.MaxRequestPoints)
	}
	if conf.Notify.Mode != NotifyDirect {
		t.Errorf("notify mode = %q, want %q", conf.Notify.Mode, NotifyDirect)
	}
	if conf.Line.ApiBase != "https://api.line.me" {
		t.Errorf("line api base = %q", conf.Line.ApiBase)
	}
	if ProvideRocketMQConfig(conf).Enabled() {
		t.Error("rocketmq should be disabled without nameserver")
	}
}

func TestLoad_ExpandEnv(t *testing.T) {
	t.Setenv("NINETY_LINE_TOKEN", "secret-token")

	path := filepath.Join(t.TempDir(), "config.test.yaml")
	content := `
server:
  http: 9000
line:
  channel_access_token: ${NINETY_LINE_TOKEN}
ledger:
  sweep_interval: 10s
  pending_timeout: 2m
  request_window: 24h
mysql:
  host: db
  port: 3306
  username: ninety
  password: pw
  database: ninety
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	conf, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if conf.Line.ChannelAccessToken != "secret-token" {
		t.Errorf("token = %q", conf.Line.ChannelAccessToken)
	}
	if conf.Server.Http != 9000 {
		t.Errorf("http = %d", conf.Server.Http)
	}
	if conf.Ledger.SweepInterval != 10*time.Second || conf.Ledger.PendingTimeout != 2*time.Minute {
		t.Errorf("ledger = %+v", conf.Ledger)
	}
	if conf.Ledger.RequestWindow != 24*time.Hour {
		t.Errorf("request window = %s", conf.Ledger.RequestWindow)
	}
	want := "ninety:pw@tcp(db:3306)/ninety?charset=utf8mb4&parseTime=True&loc=UTC"
	if got := conf.MySQL.Dsn(); got != want {
		t.Errorf("dsn = %q, want %q", got, want)
	}
}

func TestParse_RequestWindowDisabled(t *testing.T) {
	conf, err := Parse([]byte("ledger:\n  request_window: -1s\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if conf.Ledger.RequestWindow != 0 {
		t.Errorf("request window = %s, want 0", conf.Ledger.RequestWindow)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
