// Package state holds the shared dashboard snapshot.
//
// The background refresher writes, the UI reads. A failed refresh keeps the
// previous data visible and bumps a consecutive-failure counter; the
// snapshot reports itself offline once failures accumulate, so the UI can
// distinguish "stale but recent" from "the API is gone".
package state
