// Package pkg defines identifying metadata shared by every other
// package in the module.
//
//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
)

// Version is the semantic version of the module, embedded verbatim
// from the VERSION file at the package root.
//
//go:embed VERSION
var Version string

const (
	// Name is the canonical name of the command-line tool.
	Name = "rubber"
	// Description is a one-line summary shown in command-line help.
	Description = "Evaluate programs written in LaTeX-style math notation"
)

// AuthorInfo identifies a project author.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the project authors.
var Author = []AuthorInfo{
	{Name: "rogeriochaves"},
}
