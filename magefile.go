//go:build mage

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binary  = "advancecard"
	pkgMain = "./cmd/advancecard"
	pkgInfo = "github.com/matzehuels/advancecard/pkg/buildinfo"
)

// Default target - build the binary
var Default = Build

// Build builds the advancecard binary with version information.
func Build() error {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	commit, err := sh.Output("git", "rev-parse", "--short", "HEAD")
	if err != nil {
		commit = "none"
	}
	ldflags := fmt.Sprintf("-s -w -X %[1]s.Version=%[2]s -X %[1]s.Commit=%[3]s -X %[1]s.Date=%[4]s",
		pkgInfo, version, commit, time.Now().UTC().Format(time.RFC3339))
	return sh.RunV("go", "build", "-ldflags", ldflags, "-o", "bin/"+binary, pkgMain)
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Integration runs the backend and browser tests uncached. Redis and MongoDB
// are read from ADVANCECARD_TEST_REDIS and ADVANCECARD_TEST_MONGO; the
// browser tests need Chrome on the PATH.
func Integration() error {
	return sh.RunV("go", "test", "-count=1", "./pkg/cache/...", "./pkg/store/...", "./pkg/card/surface/...")
}

// QA runs formatting, vet and the unit tests.
func QA() error {
	if err := sh.RunV("gofmt", "-l", "."); err != nil {
		return err
	}
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	mg.Deps(Test)
	return nil
}

// Clean removes build artifacts.
func Clean() error {
	return sh.Rm("bin")
}
