package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// envDescriptorDir names the environment variable override for the
// directory pick scans for descriptor YAML files.
var envDescriptorDir = strings.ToUpper(appName) + "_DESCRIPTOR_DIR"

// resolveDescriptorDir returns the directory pick scans for descriptors.
// Priority: $ATOMICRUN_DESCRIPTOR_DIR > $XDG_CONFIG_HOME/atomicrun/descriptors
// > ~/.config/atomicrun/descriptors
func resolveDescriptorDir() (string, error) {
	if v := os.Getenv(envDescriptorDir); v != "" {
		return v, nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, appName, "descriptors"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName, "descriptors"), nil
}

// listDescriptorFiles returns every *.yaml/*.yml file directly inside dir.
// A missing directory is not an error; it yields an empty list.
func listDescriptorFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}
