// Package canvas is the interaction engine of a pinboard: boards of
// fixed-size notes on an unbounded plane, viewed through a pannable and
// zoomable viewport.
//
// Screen space is what the pointer reports. Board space is where notes live.
// A Controller turns pointer events for one board into pans, rubber-band
// selections and drags, and reports every committed change to a Sink. A
// Workspace holds the controllers of all boards and tracks the active one.
// Rendering and persistence belong to the caller.
package canvas
