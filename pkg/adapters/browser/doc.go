// Package browser binds the router to a real web page when compiled for
// js/wasm: the page's output object becomes a ports.Sink and the browser
// console becomes the ports.Console.
//
// Outside js/wasm the package is empty.
package browser
