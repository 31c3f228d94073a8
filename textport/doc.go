// Package textport carries the fair-value protocol over plain text, one
// message per line.
//
// Outbound lines:
//
//	commitment=<hex-digest>; range=0..<range-1>; purpose=<label>
//	key=<hex>; hostValue=<int>; result=<int>
//
// Inbound lines are an integer contribution, "?" for help or "x" to exit.
// [Port] works over any reader and writer, so the same code serves a
// terminal, a pipe or a test buffer.
package textport
