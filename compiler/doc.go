/*
Package compiler translates a single-function C program into x86-64 assembly.

Process of compilation

	Program Text ->
		parse ->
	Abstract Syntax Tree (ast) ->
		front ->
	Three-Address Code (ir) ->
		back: select ->
	Instructions over Pseudo Registers (asm) ->
		back: allocate ->
	Instructions over Frame Slots (asm) ->
		back: legalize ->
	Encodable Instructions (asm) ->
		format ->
	Assembly Text ->
		toolchain ->
	Binary Executable
*/
package compiler
