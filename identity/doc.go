// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package identity keeps the participant's local identity between runs.

The file holds two fixed keys plus any unsubmitted boards:

	participant_id: 2b0c4f0e-...
	participant_name: Alice
	drafts:
	  demo:
	    board: {S: [i1], A: [], B: [], C: [], D: [i2]}

The id is created lazily on the first ParticipantID call and never changes
afterwards. It is not a credential and not unique across devices.
*/
package identity
