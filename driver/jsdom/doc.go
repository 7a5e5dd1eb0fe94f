//go:build js && wasm

// Package jsdom implements the dom interfaces on the browser through
// syscall/js, together with a setTimeout-backed loop.Queue and an adapter
// for the native Navigation API.
//
// A WebAssembly entry point wires them together:
//
//	win := jsdom.NewWindow()
//	q := jsdom.NewQueue()
//	app, _, err := pwashell.Start(ctx, win, q, reg)
//	...
//	select {}
//
// Go values travel through events unchanged: an event dispatched from Go
// carries its Detail to Go listeners without crossing into JavaScript.
package jsdom
