// Package task defines the task data model and its on-disk encoding.
//
// The task file (tasks.json) is a JSON array of task records:
//
//	[
//	    {
//	        "id": 1,
//	        "description": "buy milk",
//	        "status": "todo",
//	        "createdAt": "2024-05-01T09:30:12.482913",
//	        "updatedAt": "2024-05-01T09:30:12.482913"
//	    }
//	]
//
// # Task Status Values
//
//   - "todo": Task has not been started
//   - "in-progress": Task is being worked on
//   - "done": Task is complete
//
// Status is a closed enumeration in Go; the strings above only exist at the
// encoding and CLI boundaries.
//
// # Timestamps
//
// createdAt and updatedAt are ISO-8601 local times without a zone offset.
// A six-digit fractional second is written when the microsecond part is
// non-zero. Any fractional precision is accepted when reading.
//
// # Validation
//
// Documents are checked against an embedded JSON Schema (draft 2020-12)
// before decoding. A user-supplied schema file can replace it for the doctor
// command. Duplicate IDs are reported as warnings rather than errors, since
// the default ID assignment can produce them after a deletion.
package task
