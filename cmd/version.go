package cmd

import (
	"fmt"
	"io"
)

var (
	// Version is set at build time
	Version = "dev"
	// BuildTime is set at build time
	BuildTime = "unknown"
)

const (
	author    = "tessdl contributors"
	copyright = "Copyright 2018-2026 tessdl contributors"
	license   = "Apache License 2.0"
)

func description() string {
	return fmt.Sprintf("Tesseract traineddata downloader %s", Version)
}

func printVersion(w io.Writer) {
	fmt.Fprintln(w, description(), BuildTime)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Author:", author)
	fmt.Fprintln(w, "Copyright:", copyright)
	fmt.Fprintln(w, "License:", license)
}
