// Package enum provides alias tables for protobuf enum names.
//
// An alias maps a shorthand or user-friendly value to a declared enum value
// name. For example, mapping "syn" to "SYN_SCAN" for an acme.v1.ScanType enum.
// Passing the table to protomap.WithEnumAliases lets FromMap accept the
// shorthand wherever a value of that enum is expected.
//
// # Usage
//
// Register aliases for an enum by its full name:
//
//	aliases := enum.New()
//	aliases.Register("acme.v1.ScanType", map[string]string{
//	    "syn": "SYN_SCAN",
//	    "udp": "UDP_SCAN",
//	})
//
// Or register several enums at once:
//
//	aliases.RegisterBatch(map[string]map[string]string{
//	    "acme.v1.ScanType": {"syn": "SYN_SCAN"},
//	    "acme.v1.Timing":   {"fast": "TIMING_FAST", "slow": "TIMING_SLOW"},
//	})
//
// Then decode with the table:
//
//	msg, err := protomap.NewFromMap(mt, values, protomap.WithEnumAliases(aliases))
//
// # Thread Safety
//
// All operations are thread-safe and can be called concurrently from multiple
// goroutines.
//
// # Case Insensitivity
//
// Aliases are matched case-insensitively, so "SYN", "syn", and "Syn" all match
// the same registered alias. Declared names always take precedence over
// aliases and are matched exactly.
package enum
