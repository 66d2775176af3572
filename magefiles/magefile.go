//go:build mage

// Package main provides build targets for the habits project using Mage.
//
// Usage:
//
//	mage build    Compile the habits binary to bin/
//	mage test     Run all tests
//	mage cover    Run tests with a coverage profile in bin/coverage.out
//	mage lint     Run golangci-lint
//	mage serve    Build and run the API against ./.habits-dev
//	mage clean    Remove build artifacts
//	mage install  Install habits to GOPATH/bin
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "habits"
	binaryDir  = "bin"
	cmdDir     = "./cmd/habits"
	modulePath = "github.com/mesh-intelligence/habits"

	// devDir holds the config and data used by Serve.
	devDir = ".habits-dev"
)

// ldflags stamps the version from `git describe` when available.
func ldflags() string {
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || version == "" {
		return ""
	}
	return "-X " + modulePath + "/internal/cli.Version=" + strings.TrimPrefix(version, "v")
}

// Build compiles the habits binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	args := []string{"build", "-v", "-o", filepath.Join(binaryDir, binaryName)}
	if flags := ldflags(); flags != "" {
		args = append(args, "-ldflags", flags)
	}
	return sh.RunV(binGo, append(args, cmdDir)...)
}

// Test runs all tests.
func Test() error {
	return sh.RunV(binGo, "test", "./...")
}

// Cover runs all tests with coverage and prints the per-function summary.
func Cover() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	profile := filepath.Join(binaryDir, "coverage.out")
	if err := sh.RunV(binGo, "test", "-coverprofile="+profile, "./..."); err != nil {
		return err
	}
	return sh.RunV(binGo, "tool", "cover", "-func="+profile)
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Serve builds the binary and serves the API with development settings.
func Serve() error {
	mg.Deps(Build)
	env := map[string]string{
		"HABITS_LOG_FORMAT": "console",
		"HABITS_LOG_LEVEL":  "debug",
	}
	return sh.RunWithV(env, filepath.Join(binaryDir, binaryName),
		"--config-dir", filepath.Join(devDir, "config"),
		"--data-dir", filepath.Join(devDir, "data"),
		"serve",
	)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
