package pluginapp

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if c.CltvDelta != defaultCltvDelta {
		t.Fatalf("expected default cltv-delta %d, got %d", defaultCltvDelta, c.CltvDelta)
	}
	if c.GRPCEnabled() {
		t.Fatal("expected gRPC disabled by default")
	}
}

func TestReadConfigFileParsesCltvDelta(t *testing.T) {
	dir, err := ioutil.TempDir("", "hodlvoice-config")
	if err != nil {
		t.Fatalf("TempDir: %v", err)
	}
	defer os.RemoveAll(dir)

	content := "# a comment line with no equals\nnetwork=bitcoin\ncltv-delta=144\n"
	if err := ioutil.WriteFile(filepath.Join(dir, "config"), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	c := DefaultConfig()
	if err := c.ReadConfigFile(dir); err != nil {
		t.Fatalf("ReadConfigFile: %v", err)
	}
	if c.CltvDelta != 144 {
		t.Fatalf("expected cltv-delta 144, got %d", c.CltvDelta)
	}
}

func TestReadConfigFileFallsBackToParentDir(t *testing.T) {
	parent, err := ioutil.TempDir("", "hodlvoice-config-parent")
	if err != nil {
		t.Fatalf("TempDir: %v", err)
	}
	defer os.RemoveAll(parent)

	child := filepath.Join(parent, "lightningdir")
	if err := os.Mkdir(child, 0755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if err := ioutil.WriteFile(filepath.Join(parent, "config"), []byte("cltv-delta=99\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	c := DefaultConfig()
	if err := c.ReadConfigFile(child); err != nil {
		t.Fatalf("ReadConfigFile: %v", err)
	}
	if c.CltvDelta != 99 {
		t.Fatalf("expected cltv-delta 99 from the parent config, got %d", c.CltvDelta)
	}
}

func TestReadConfigFileMissingIsNotAnError(t *testing.T) {
	dir, err := ioutil.TempDir("", "hodlvoice-config-missing")
	if err != nil {
		t.Fatalf("TempDir: %v", err)
	}
	defer os.RemoveAll(dir)

	c := DefaultConfig()
	if err := c.ReadConfigFile(dir); err != nil {
		t.Fatalf("expected a missing config file to be a no-op, got %v", err)
	}
	if c.CltvDelta != defaultCltvDelta {
		t.Fatalf("expected the default cltv-delta to survive, got %d", c.CltvDelta)
	}
}

func TestReadConfigFileUnparseableCltvDeltaIsFatal(t *testing.T) {
	dir, err := ioutil.TempDir("", "hodlvoice-config-bad")
	if err != nil {
		t.Fatalf("TempDir: %v", err)
	}
	defer os.RemoveAll(dir)

	if err := ioutil.WriteFile(filepath.Join(dir, "config"), []byte("cltv-delta=not-a-number\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	c := DefaultConfig()
	if err := c.ReadConfigFile(dir); err == nil {
		t.Fatal("expected an unparseable cltv-delta to be a fatal configuration error")
	}
}

func TestReadConfigFileIgnoresUnrecognizedKeys(t *testing.T) {
	dir, err := ioutil.TempDir("", "hodlvoice-config-unknown")
	if err != nil {
		t.Fatalf("TempDir: %v", err)
	}
	defer os.RemoveAll(dir)

	content := "alias=my-node\nbind-addr=0.0.0.0:9735\n"
	if err := ioutil.WriteFile(filepath.Join(dir, "config"), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	c := DefaultConfig()
	if err := c.ReadConfigFile(dir); err != nil {
		t.Fatalf("ReadConfigFile: %v", err)
	}
	if c.CltvDelta != defaultCltvDelta {
		t.Fatalf("expected unrecognized keys to leave cltv-delta at its default, got %d", c.CltvDelta)
	}
}
