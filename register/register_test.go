package register

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func readConfig(t *testing.T, configPath string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("reading config: %v", err)
	}
	var config map[string]any
	if err := json.Unmarshal(data, &config); err != nil {
		t.Fatalf("parsing config: %v", err)
	}
	return config
}

func Test_ParseScope(t *testing.T) {
	for _, name := range []string{"project", "user"} {
		if _, err := ParseScope(name); err != nil {
			t.Errorf("ParseScope(%q) error = %v", name, err)
		}
	}
	if _, err := ParseScope("global"); err == nil {
		t.Error("expected an error for an unknown scope")
	}
}

func Test_Write_CreatesNewFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".mcp.json")

	entry := ServerEntry{Command: "/usr/bin/kushn", Args: []string{"serve", "--root", "/tmp"}}
	if err := Write(configPath, "kushn", entry); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	servers, ok := readConfig(t, configPath)["mcpServers"].(map[string]any)
	if !ok {
		t.Fatal("mcpServers not found or not an object")
	}
	serverEntry, ok := servers["kushn"].(map[string]any)
	if !ok {
		t.Fatal("kushn entry not found or not an object")
	}
	if serverEntry["command"] != "/usr/bin/kushn" {
		t.Errorf("command = %v, want /usr/bin/kushn", serverEntry["command"])
	}

	leftovers, _ := filepath.Glob(filepath.Join(filepath.Dir(configPath), ".mcp-*"))
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}

func Test_Write_UpdatesExistingEntry(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".claude.json")

	initial := map[string]any{
		"theme": "dark",
		"mcpServers": map[string]any{
			"other-server": map[string]any{"command": "/usr/bin/other"},
			"kushn":        map[string]any{"command": "/old/path"},
		},
	}
	initialData, _ := json.MarshalIndent(initial, "", "  ")
	if err := os.WriteFile(configPath, initialData, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Write(configPath, "kushn", ServerEntry{Command: "/new/path", Args: []string{"serve"}}); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	config := readConfig(t, configPath)
	if config["theme"] != "dark" {
		t.Errorf("unrelated key lost: %v", config["theme"])
	}
	servers := config["mcpServers"].(map[string]any)
	if servers["other-server"].(map[string]any)["command"] != "/usr/bin/other" {
		t.Errorf("other-server changed unexpectedly: %v", servers["other-server"])
	}
	if servers["kushn"].(map[string]any)["command"] != "/new/path" {
		t.Errorf("kushn command = %v, want /new/path", servers["kushn"])
	}
}

func Test_Write_InvalidJSON(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".mcp.json")
	if err := os.WriteFile(configPath, []byte("not valid json{{{"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Write(configPath, "kushn", ServerEntry{Command: "/usr/bin/kushn"}); err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func Test_Write_ServersNotAnObject(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".mcp.json")
	if err := os.WriteFile(configPath, []byte(`{"mcpServers": []}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Write(configPath, "kushn", ServerEntry{Command: "/usr/bin/kushn"}); err == nil {
		t.Fatal("expected error when mcpServers is not an object")
	}
}

func Test_NewEntry(t *testing.T) {
	args := []string{"serve", "--root", "/projects"}

	unix := NewEntry("linux", "/usr/local/bin/kushn", args)
	if unix.Command != "/usr/local/bin/kushn" || len(unix.Args) != 3 {
		t.Errorf("linux entry = %+v", unix)
	}

	windows := NewEntry("windows", `C:\bin\kushn.exe`, args)
	if windows.Command != "cmd" {
		t.Errorf("windows command = %q, want cmd", windows.Command)
	}
	if len(windows.Args) != 5 || windows.Args[0] != "/C" || windows.Args[1] != `C:\bin\kushn.exe` || windows.Args[2] != "serve" {
		t.Errorf("windows args = %v", windows.Args)
	}
}

func Test_ConfigPath_Project(t *testing.T) {
	got, err := ConfigPath(ScopeProject, ".")
	if err != nil {
		t.Fatalf("ConfigPath() error: %v", err)
	}

	absDir, _ := filepath.Abs(".")
	if want := filepath.Join(absDir, ".mcp.json"); got != want {
		t.Errorf("ConfigPath(project, .) = %q, want %q", got, want)
	}
}

func Test_ConfigPath_User(t *testing.T) {
	got, err := ConfigPath(ScopeUser, "")
	if err != nil {
		t.Fatalf("ConfigPath() error: %v", err)
	}

	homeDir, _ := os.UserHomeDir()
	if want := filepath.Join(homeDir, ".claude.json"); got != want {
		t.Errorf("ConfigPath(user, ) = %q, want %q", got, want)
	}
}
