// Package annotation defines the decoder's output model: sample-spanned,
// multi-variant textual annotations grouped into display rows, plus the
// variant composer that generates adaptive-width renderings.
//
// The composer is the one genuinely opinionated piece here. Each decoded
// fact is rendered as every useful combination of its label set with the
// optional action, value, and unit, sorted by descending length. The
// rendering surface then selects the longest variant that fits the pixels
// it has, degrading gracefully down to a one-letter label on a crowded
// trace.
package annotation
