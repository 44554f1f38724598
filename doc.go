// Package fbi provides a fast bytecode interpreter for the eight-symbol
// tape language.
//
// Source text is compiled into a compact bytecode: runs of identical
// symbols collapse into counted instructions, the "[-]" idiom becomes a
// direct assignment, adjacent adjustments merge, and every loop bracket
// records the index of its partner. The bytecode then runs against a
// byte-valued memory tape.
//
// Only the symbols + - < > , . [ ] are significant; every other byte is a
// comment.
//
// # Quick Start
//
// For simple one-off execution:
//
//	output, err := fbi.Run(`++++++++[>++++++++<-]>+.`, nil, nil)
//	// output: "A"
//
// # Compiled Programs
//
// For repeated execution of the same program:
//
//	prog, err := fbi.Compile(src)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, input := range inputs {
//	    output, err := prog.Run(input, nil)
//	    // ...
//	}
//
// A compiled program can be saved as a bytecode image with
// [Program.MarshalBinary] and restored with [LoadImage].
//
// # Configuration
//
// The [Config] type selects the tape layout and the input convention:
//   - Tape addressing: growable in both directions, or a fixed power-of-two ring
//   - Cell storage width: 8, 16 or 32 bits
//   - Growth policy and cell limit for growable tapes
//   - What an input instruction stores at end of input
//
// Settings can also be read from a TOML file with [LoadConfig].
//
// # Error Handling
//
// Errors are returned as specific types for detailed handling:
//   - [CompileError]: unreadable source, unmatched brackets, oversized code
//   - [RuntimeError]: tape exhaustion, I/O failure, cancellation
//
// # Thread Safety
//
// Compiled [Program] objects are safe for concurrent use.
// Each call to [Program.Run] creates an independent tape.
package fbi
