// Package defaults provides embedded copies of the example
// configuration and a sample notes file for the recap init subcommand.
package defaults

import _ "embed"

//go:embed config.example.yaml
var ConfigYAML []byte

//go:embed sample_meeting.txt
var SampleNotes []byte
