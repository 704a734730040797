package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.Package != "cpu" || cfg.RecordType != "opcode" {
		t.Errorf("expected cpu/opcode, got %q/%q", cfg.Package, cfg.RecordType)
	}
	if cfg.BaseMap != "opcodeMap" || cfg.ExtMap != "opcodeMapExt" || cfg.ExtTag != "OpcodeExt" {
		t.Errorf("unexpected table names %q %q %q", cfg.BaseMap, cfg.ExtMap, cfg.ExtTag)
	}
	if !cfg.CacheResults {
		t.Error("expected result cache enabled by default")
	}
	if cfg.ExtRecordType != "extOpcode" || cfg.DeclareTypes {
		t.Errorf("expected extOpcode without declarations, got %q/%v", cfg.ExtRecordType, cfg.DeclareTypes)
	}
	if got := cfg.EmitOptions().Reserved; len(got) != 2 || got[0] != "opcode" || got[1] != "extOpcode" {
		t.Errorf("expected record types reserved, got %v", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("OPGEN_PACKAGE", "lr35902")
	t.Setenv("OPGEN_EXT_TAG", "OpcodeCB")
	t.Setenv("OPGEN_WORKERS", "-3")
	t.Setenv("OPGEN_JOB_TTL", "15m")
	t.Setenv("OPGEN_MAX_QUEUE", "not-a-number")
	t.Setenv("OPGEN_CACHE_RESULTS", "false")

	cfg := Load()
	if cfg.Package != "lr35902" {
		t.Errorf("expected package lr35902, got %q", cfg.Package)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("expected clamped worker count 4, got %d", cfg.WorkerCount)
	}
	if cfg.MaxQueueSize != 100 {
		t.Errorf("expected default queue size 100, got %d", cfg.MaxQueueSize)
	}
	if cfg.JobTTL != 15*time.Minute {
		t.Errorf("expected 15m TTL, got %v", cfg.JobTTL)
	}
	if cfg.CacheResults {
		t.Error("expected result cache disabled")
	}
	if got := cfg.EmitOptions().ExtTag; got != "OpcodeCB" {
		t.Errorf("expected ext tag OpcodeCB, got %q", got)
	}
	if got := cfg.GoOptions("x.html"); got.Package != "lr35902" || got.Source != "x.html" {
		t.Errorf("unexpected go options %+v", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Config)
	}{
		{"package", func(c *Config) { c.Package = "my-cpu" }},
		{"record type", func(c *Config) { c.RecordType = "" }},
		{"lookup", func(c *Config) { c.LookupFunc = "Lookup Ext" }},
		{"clashing maps", func(c *Config) { c.ExtMap = c.BaseMap }},
		{"ext tag", func(c *Config) { c.ExtTag = "1Ext" }},
		{"shared record types", func(c *Config) { c.ExtRecordType = c.RecordType }},
		{"lookup named like a map", func(c *Config) { c.LookupFunc = c.BaseMap }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.edit(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
