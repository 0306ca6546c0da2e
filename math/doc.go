/*
Package math implements dice expression mathematics and functions.

Evaluate works on purely arithmetic expressions: any dice notation must
already have been rolled and replaced by numbers by the caller. It follows
order of operations:

	Parenthesis (deepest first),
	Functions,
	Exponentiation,
	Multiplication, division, and modulus from left to right,
	Addition and subtraction from left to right

The math package currently relies heavily on
https://github.com/Knetic/govaluate.
*/
package math
