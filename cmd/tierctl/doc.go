// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Command tierctl ranks a project's images from the terminal.

	tierctl name Alice
	tierctl show demo
	tierctl select demo chips.png S
	tierctl move demo chips.png tier:A
	tierctl move demo chips.png pretzels.png
	tierctl reorder demo S 2 1
	tierctl submit demo
	tierctl results --xlsx results.xlsx demo
	tierctl export -o ~/Pictures demo

Items can be named by id or by exact name. Edits are kept as a local draft
until submit succeeds; a failed submit prints the error and keeps the draft.

Catalog management needs the admin key:

	TIERBOARD_ADMIN_KEY=secret tierctl admin title demo "Best Snacks"
	TIERBOARD_ADMIN_KEY=secret tierctl admin upload --name Chips demo chips.png

The server defaults to http://localhost:3318 (TIERBOARD_URL). The identity
file defaults to the user config dir (TIERBOARD_IDENTITY).
*/
package main
