// Package scancode parses raw barcode payloads into their two parts:
// the identity of the scanning device and the order token it read.
package scancode
