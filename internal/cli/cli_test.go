package cli

import (
	"bytes"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glucotray/nightscout-tray/internal/config"
	"github.com/glucotray/nightscout-tray/internal/version"
)

// executeCmd runs the full command tree with args and returns stdout.
func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootCmd := NewRootCmd()
	AddCommands(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func tempConfig(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "tray.conf")
}

func TestRootCmd_Flags(t *testing.T) {
	rootCmd := NewRootCmd()
	for _, name := range []string{"config", "url", "verbose", "debug"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing persistent flag --%s", name)
		}
	}
	if rootCmd.RunE == nil {
		t.Error("root command should start the tray when run without a subcommand")
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	rootCmd := NewRootCmd()
	AddCommands(rootCmd)

	for _, name := range []string{"run", "status", "icon", "config"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestVersionFlag(t *testing.T) {
	out, err := executeCmd(t, "--version")
	if err != nil {
		t.Fatalf("--version: %v", err)
	}
	if !strings.Contains(out, version.Version) {
		t.Errorf("version output %q does not contain %q", out, version.Version)
	}
}

func TestStatus_PrintsReading(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/entries.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`[{"sgv":100,"direction":"Flat","date":1700000000000}]`))
	}))
	defer server.Close()

	out, err := executeCmd(t, "status", "--config", tempConfig(t), "--url", server.URL)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{"5.5 mmol/L →", "Flat", "in-range"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestStatus_NoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	_, err := executeCmd(t, "status", "--config", tempConfig(t), "--url", server.URL)
	if !errors.Is(err, ErrNoReading) {
		t.Fatalf("status error = %v, want ErrNoReading", err)
	}
}

func TestStatus_MissingURL(t *testing.T) {
	if os.Getenv("NIGHTSCOUT_URL") != "" {
		t.Skip("NIGHTSCOUT_URL is set in the environment")
	}
	_, err := executeCmd(t, "status", "--config", tempConfig(t))
	if !errors.Is(err, config.ErrMissingURL) {
		t.Fatalf("status error = %v, want ErrMissingURL", err)
	}
}

func TestIconCmd_WritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "badge.png")
	out, err := executeCmd(t, "icon", "--value", "5.5", "--direction", "SingleUp", "-o", path)
	if err != nil {
		t.Fatalf("icon: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("output %q does not mention %s", out, path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 32 {
		t.Errorf("bounds = %v, want 32x32", b)
	}
}

func TestIconCmd_Logo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.png")
	if _, err := executeCmd(t, "icon", "--logo", "-o", path); err != nil {
		t.Fatalf("icon --logo: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("logo not written: %v", err)
	}
}

func TestIconCmd_RequiresValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.png")
	if _, err := executeCmd(t, "icon", "-o", path); err == nil {
		t.Error("expected error without --value")
	}
}
