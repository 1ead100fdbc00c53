// Package mancalc implements an arbitrary-precision calculator that accepts
// both infix and postfix notation.
//
// A Machine holds a stack of numbers. Pushing a number appends it; pushing
// the name of an operator applies the operator to the top of the stack, so
// "3", "4", "+" leaves 7. Operator names are case-insensitive. Some operators
// are defined as sequences of others; for example, "cf" converts Celsius to
// Fahrenheit by pushing "9", "*", "5", "/", "32", "+".
//
// A Parser translates infix expressions like "(1+2)*7 + 2^(4+1)" into pushes
// on a machine. Its grammar is a table of precedence tiers, so the set of
// operators it recognizes is data, not code.
//
// Numbers are decimal floating-point with a configurable number of
// significant digits, 1024 by default, so 0.1+0.2 is exactly 0.3. Operations
// without a real result give NaN rather than an error.
package mancalc
