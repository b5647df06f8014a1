// Package js adapts an output object living in an embedded goja JavaScript
// runtime to ports.Sink, so host scripts written for the browser page can
// receive reports outside a browser.
package js
