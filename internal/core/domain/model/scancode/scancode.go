package scancode

import "strings"

// ScanCode is the parsed form of a raw barcode scan. Handheld scanners are
// configured to prepend their own identity to every read, so a payload
// looks like "XL1#ORDER-20260830-001": everything up to and including the
// first '#' identifies the scanner, the remainder is the order token.
// A payload without a '#' is a bare order token, which happens when the
// code is keyed in manually or read by an unregistered device.
//
// ScanCode is a value object; construct it through Parse.
type ScanCode struct {
	scannerCode string
	orderToken  string
}

// Parse splits a raw scan payload into scanner identity and order token.
//
// The payload is split on the first '#'. The prefix including the '#'
// becomes the scanner code, matching how scanner identities are
// registered. Without a '#' the whole payload is the order token and the
// scanner code is empty.
//
// Parse never fails. A garbled read like "XL1#" yields an empty order
// token but keeps the scanner prefix, so the attempt stays attributable
// to its scanner. Judging the pair is the scan handler's job.
func Parse(raw string) ScanCode {
	trimmed := strings.TrimSpace(raw)

	idx := strings.Index(trimmed, "#")
	if idx < 0 {
		return ScanCode{orderToken: trimmed}
	}

	return ScanCode{
		scannerCode: trimmed[:idx+1],
		orderToken:  strings.TrimSpace(trimmed[idx+1:]),
	}
}

// ScannerCode returns the scanner identity prefix including the trailing
// '#', or the empty string when the payload carried no scanner identity.
func (c ScanCode) ScannerCode() string {
	return c.scannerCode
}

// OrderToken returns the order token part of the payload.
func (c ScanCode) OrderToken() string {
	return c.orderToken
}

// HasScannerCode reports whether the payload carried a scanner identity.
func (c ScanCode) HasScannerCode() bool {
	return c.scannerCode != ""
}

// HasOrderToken reports whether the payload carried an order token.
func (c ScanCode) HasOrderToken() bool {
	return c.orderToken != ""
}
