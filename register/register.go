// Package register adds a `kushn serve` entry to an MCP client configuration file.
package register

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// Scope selects which configuration file receives the entry.
type Scope string

const (
	ScopeProject Scope = "project" // <directory>/.mcp.json
	ScopeUser    Scope = "user"    // ~/.claude.json
)

// ServerEntry is one element of the "mcpServers" object.
type ServerEntry struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// ParseScope validates a scope name.
func ParseScope(name string) (Scope, error) {
	switch Scope(name) {
	case ScopeProject, ScopeUser:
		return Scope(name), nil
	default:
		return "", fmt.Errorf("unknown scope %q (must be %q or %q)", name, ScopeProject, ScopeUser)
	}
}

// ConfigPath returns the configuration file for scope.
// directory is only used for ScopeProject.
func ConfigPath(scope Scope, directory string) (string, error) {
	if scope == ScopeProject {
		absDir, err := filepath.Abs(directory)
		if err != nil {
			return "", fmt.Errorf("resolving directory %s: %w", directory, err)
		}
		return filepath.Join(absDir, ".mcp.json"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(homeDir, ".claude.json"), nil
}

// BinaryPath returns the resolved path of the running executable.
func BinaryPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("getting executable path: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolving symlinks for %s: %w", exe, err)
	}
	return resolved, nil
}

// NewEntry builds the command line that starts the server.
// On Windows the binary is launched through cmd /C.
func NewEntry(goos, binaryPath string, args []string) ServerEntry {
	if goos == "windows" {
		return ServerEntry{
			Command: "cmd",
			Args:    append([]string{"/C", binaryPath}, args...),
		}
	}
	return ServerEntry{Command: binaryPath, Args: args}
}

// Write adds or replaces serverName in the config file, keeping every other key.
// The file is replaced atomically.
func Write(configPath, serverName string, entry ServerEntry) error {
	configDir, configName := filepath.Split(configPath)
	fs := osfs.New(configDir)

	config := map[string]any{}
	data, err := util.ReadFile(fs, configName)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &config); err != nil {
			return fmt.Errorf("parsing existing config %s: %w", configPath, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("reading config %s: %w", configPath, err)
	}

	servers, ok := config["mcpServers"]
	if !ok || servers == nil {
		servers = map[string]any{}
		config["mcpServers"] = servers
	}
	serversMap, ok := servers.(map[string]any)
	if !ok {
		return fmt.Errorf("mcpServers in %s is not an object", configPath)
	}
	serversMap[serverName] = entry

	output, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	output = append(output, '\n')

	tmpFile, err := fs.TempFile("", ".mcp-")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", configDir, err)
	}
	tmpName := tmpFile.Name()

	if _, err := tmpFile.Write(output); err != nil {
		_ = tmpFile.Close()
		_ = fs.Remove(tmpName)
		return fmt.Errorf("writing temp file %s: %w", tmpName, err)
	}
	if err := tmpFile.Close(); err != nil {
		_ = fs.Remove(tmpName)
		return fmt.Errorf("closing temp file %s: %w", tmpName, err)
	}
	if err := fs.Rename(tmpName, configName); err != nil {
		_ = fs.Remove(tmpName)
		return fmt.Errorf("renaming %s to %s: %w", tmpName, configPath, err)
	}
	return nil
}
