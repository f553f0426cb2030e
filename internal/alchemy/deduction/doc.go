// Package deduction narrows each ingredient's possible formulas from the
// recorded events.
//
// Deduction is a pure function of the ordered event log: every call starts
// from the full universe for each ingredient and replays the whole log,
// applying the inference rules in passes until a pass removes nothing.
// Within a pass, in order:
//
//   - mix events keep only formulas that can brew the observed potion with
//     some distinct partner still possible for the other ingredient;
//   - lookup events keep formulas of the recorded alignment;
//   - spy events keep formulas carrying the observed signed aspect;
//   - device tests record the golem reaction of their ingredient;
//   - golem inference narrows the ears and chest symbols and then filters
//     every ingredient with a recorded reaction;
//   - an ingredient down to one formula removes it from every other one;
//   - a formula only one ingredient can still hold is forced onto it.
//
// Every rule only removes candidates, so the loop always terminates.
// Contradictory evidence empties a candidate set; that is reported through
// Consistent and Contradictions, never as an error.
package deduction
