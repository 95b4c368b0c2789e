// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides the shared admin key check and id generation.

# Admin Key

Catalog management is guarded by one shared secret from configuration:

	err := auth.ValidateAdminKey(r.Header.Get("X-Admin-Key"), cfg.AdminKey)

The comparison is constant time. There are no per-project keys.

# Participant IDs

Participants are identified by a random UUID created once per device:

	id := auth.NewParticipantID()
	err := auth.ValidateParticipantID(id)

The id is not a credential; anyone holding it can overwrite that
participant's submission.

# ID Generation

Random hex IDs for catalog items:

	id, err := auth.GenerateID(12)  // 24 hex characters

# IP Hashing

For privacy-preserving request logs:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
