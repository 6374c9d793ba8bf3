// SPDX-License-Identifier: MPL-2.0

// mkwineprefix creates Wine prefixes with custom settings.
//
// The tool is meant to be used with eval so the invoking shell picks up
// the resulting environment:
//
//	eval $(mkwineprefix my-prefix --dpi 120 --windows-version 7)
package main

import cmd "mkwineprefix/cmd/mkwineprefix"

func main() {
	cmd.Execute()
}
