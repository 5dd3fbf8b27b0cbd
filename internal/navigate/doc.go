// Package navigate resolves free-text utterances to TaskFoo frontend routes.
//
// The route table is an ordered list of (phrase, route) pairs. An utterance is
// lower-cased and scanned in table order; the first phrase found as a substring
// wins. Because matching is by substring, an earlier short phrase can eclipse a
// later longer one ("dashboard" contains "board"). Shadowed reports such
// entries, and the "longest" strategy resolves them by phrase length instead.
package navigate
