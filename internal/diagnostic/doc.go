// Package diagnostic turns the free-text diagnostic streams of the external
// media engine into structured events.
//
// Analysis filters such as silencedetect, scdet, and loudnorm report their
// findings on stderr as loosely structured text rather than through an API.
// Each diagnostic kind owns one line grammar; adding support for another
// analysis filter means adding a kind and its parser, not touching shared
// logic. Parsing is pure and tolerant: missing trailing markers, duplicates,
// and unordered output are all accepted, and "nothing detected" is an empty
// event list rather than an error.
package diagnostic
