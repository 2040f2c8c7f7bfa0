// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binLint     = "golangci-lint"
	lintTimeout = "5m"
)

// Vet runs go vet over every package.
func Vet() error {
	return sh.RunV(binGo, "vet", "./...")
}

// Lint runs golangci-lint after Vet and finishes with a compile-only build
// of cmd/ledger.
func Lint() error {
	mg.SerialDeps(Vet)
	if err := sh.RunV(binLint, "run", "--timeout", lintTimeout, "./..."); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-o", devNull(), cmdDir)
}
