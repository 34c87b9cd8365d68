// Package cmd implements the protomap command-line interface. It converts
// protobuf messages described by descriptor sets to JSON or YAML mappings and
// back.
//
// The commands are:
//
//   - encode: read a binary, JSON or text message and write its mapping
//   - decode: read a JSON or YAML mapping and write the message
//   - version: print the version
//
// Settings come from a protomap.yaml file (--config), PROTOMAP_* environment
// variables and flags, with flags taking precedence.
//
// See protomap --help for a list of all commands.
package cmd
