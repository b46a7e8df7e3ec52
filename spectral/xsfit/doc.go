// Package xsfit drives an external spectral-fitting tool as an emission
// and absorption back-end.
//
// The tool is treated as an opaque computation engine behind the [Backend]
// interface: set a global energy grid, define a named model expression,
// get and set model parameters, retrieve per-channel values. [Session]
// implements Backend by spawning the tool as a helper subprocess and
// speaking JSON-RPC over its stdio.
//
// The tool's configuration (chatter level, active energy grid, model
// string settings) is global to a session. Two models sharing one session
// therefore share implicit state, and a session must not be used from
// multiple goroutines; run one session per concurrent worker instead.
package xsfit
