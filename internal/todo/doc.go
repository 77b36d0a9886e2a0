// Package todo holds the task list, its lookups, and its JSON task file.
//
// The task file is a JSON array of task objects:
//
//	[
//	  {
//	    "id": "0b4f6a52-8c1e-4f55-9a0f-3a1d2c9e7b10",
//	    "text": "buy milk",
//	    "date": "2024-01-15",
//	    "done": false
//	  }
//	]
//
// # Lookups
//
// Search, Delete and MarkDone compare names with stored task text ignoring
// case. When nothing matches exactly, the closest stored text (similarity
// ratio of at least 0.6) is offered as a suggestion:
//
//   - "find": exact match, Result.Task is the stored task
//   - "suggestion": Result.Suggestion is the suggested text, lower-cased
//   - "not_found": nothing close enough
//
// Add reports "added" or "duplicate". A duplicate result carries the task
// that was passed in, not the stored one.
//
// # Loading
//
// Load never fails on a missing or unreadable-as-JSON file:
//
//   - missing: the file is created holding [] (LoadCreated)
//   - not a JSON list of objects: the list starts empty (LoadCorrupt) and
//     the file is overwritten by the next Save
//
// A stored entry with a non-boolean "done" or a missing key is an error.
//
// # File Format
//
// Save writes the whole file each time, with 2-space indentation and a
// trailing newline. There is no atomic rename; concurrent writers are
// kept apart only by the advisory lock in AcquireLock.
package todo
